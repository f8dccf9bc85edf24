package jsonutil

import "encoding/json"

func Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Decode(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}
