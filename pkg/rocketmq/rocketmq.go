package rocketmq

import (
	"Shopcore/config"
	"Shopcore/pkg/log"
	"context"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

type Rocketmq struct {
	Producer rocketmq.Producer
	Topic    string
}

// InitProducer 未开启时返回 nil，调用方退化为不发消息
func InitProducer(cfg *config.RocketMQConfig) *Rocketmq {
	if !cfg.Enabled {
		log.L.Info("rocketmq disabled")
		return nil
	}
	retry := cfg.Producer.Retry
	if retry <= 0 {
		retry = 2
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(retry),
	)
	if err != nil {
		log.L.Fatal("init producer error", zap.Error(err))
	}
	if err = p.Start(); err != nil {
		log.L.Fatal("start producer error", zap.Error(err))
	}
	log.L.Info("init producer success")

	return &Rocketmq{Producer: p, Topic: cfg.Topic}
}

// SendMsg 同步发送，tag 用于消费端过滤
func (p *Rocketmq) SendMsg(ctx context.Context, tag, key string, body []byte) error {
	msg := primitive.NewMessage(p.Topic, body)
	msg.WithTag(tag)
	msg.WithKeys([]string{key})

	res, err := p.Producer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("msg_id", res.MsgID), zap.String("tag", tag))
	return nil
}

func (p *Rocketmq) Shutdown() error {
	return p.Producer.Shutdown()
}
