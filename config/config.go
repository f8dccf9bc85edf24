package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App            `json:"app" yaml:"app"`
	Redis    *Redis          `json:"redis" yaml:"redis"`
	MySQL    *MySQL          `json:"mysql" yaml:"mysql"`
	Jwt      *Jwt            `json:"jwt" yaml:"jwt"`
	Server   *Server         `json:"server" yaml:"server"`
	RocketMQ *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	Cart     *Cart           `json:"cart" yaml:"cart"`
	Shipping *Shipping       `json:"shipping" yaml:"shipping"`
	Coupons  []Coupon        `json:"coupons" yaml:"coupons"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

func New(filename string) *Config {

	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		panic(fmt.Sprintf("解析 %s 读取错误: %v", filename, err))
	}
	conf.fill()

	return &conf
}

// fill 缺省段落给出默认值，避免各处判空
func (c *Config) fill() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{Http: 8080}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.Cart == nil {
		c.Cart = &Cart{}
	}
	if c.Shipping == nil {
		c.Shipping = &Shipping{}
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
