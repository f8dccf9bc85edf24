package config

type RocketMQConfig struct {
	Enabled    bool     `yaml:"enabled"`
	NameServer []string `yaml:"nameserver"`
	Topic      string   `yaml:"topic"`

	Producer Producer `yaml:"producer"`
}

type Producer struct {
	Group string `yaml:"group"`
	Retry int    `yaml:"retry"`
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	if cfg.RocketMQ == nil {
		return &RocketMQConfig{}
	}
	return cfg.RocketMQ
}
