package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// SnowflakeNode 多实例部署时每台机器唯一
	SnowflakeNode int64 `json:"snowflake_node" yaml:"snowflake_node"`
}

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
}
