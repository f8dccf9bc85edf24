package config

import "fmt"

// MySQL 数据库配置
type MySQL struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	Database  string `json:"database" yaml:"database"`
	Charset   string `json:"charset" yaml:"charset"`
	MaxOpen   int    `json:"max_open" yaml:"max_open"`
	MaxIdle   int    `json:"max_idle" yaml:"max_idle"`
	Isolation string `json:"isolation" yaml:"isolation"` // 默认 READ-COMMITTED
}

func (m *MySQL) Dsn() string {
	charset := m.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	isolation := m.Isolation
	if isolation == "" {
		isolation = "READ-COMMITTED"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local&transaction_isolation=%%27%s%%27",
		m.Username, m.Password, m.Host, m.Port, m.Database, charset, isolation)
}
