package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// Sender 由 *mail.Client 实现
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Consumer struct {
	sender Sender
	from   string
	to     string
}

func NewConsumer(sender Sender, from, to string) *Consumer {
	return &Consumer{sender: sender, from: from, to: to}
}

// Handle 处理一条事件消息，requeue 表示失败后是否应该重新入队
func (c *Consumer) Handle(ctx context.Context, body []byte) (requeue bool, err error) {
	var event domain.RosterEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return false, fmt.Errorf("事件反序列化失败: %w", err)
	}

	m, err := BuildMessage(c.from, c.to, event)
	if err != nil {
		return false, err
	}

	if err := c.sender.DialAndSendWithContext(ctx, m); err != nil {
		// 邮件服务器暂时不可用，稍后重试
		return true, fmt.Errorf("邮件发送失败: %w", err)
	}

	return false, nil
}

// Run 持续消费消息直到 ctx 被取消或者通道关闭
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				slog.Warn("消息通道已关闭")
				return
			}

			slog.Info("收到消息", "type", d.Type, "body", string(d.Body))
			requeue, err := c.Handle(ctx, d.Body)
			if err != nil {
				slog.Error("无法处理消息", "requeue", requeue, "error", err)
				_ = d.Nack(false, requeue)
				continue
			}

			_ = d.Ack(false)
		}
	}
}
