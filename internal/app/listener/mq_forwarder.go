/*
 * @Description: 把总线上的领域事件转发到 RabbitMQ
 * @Author: 安知鱼
 * @Date: 2025-10-22 15:10:51
 * @LastEditTime: 2025-10-22 15:40:18
 * @LastEditors: 安知鱼
 */
package listener

import (
	"context"
	"log"
	"time"

	"github.com/anzhiyu-c/anheyu-press/internal/infra/mq"
	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
)

// MQForwarder 订阅所有主题，并把事件原样投递到消息队列，路由键即主题名
type MQForwarder struct {
	sender  mq.Sender
	timeout time.Duration
}

// NewMQForwarder 是 MQForwarder 的构造函数，并完成事件订阅。
func NewMQForwarder(eventBus *event.EventBus, sender mq.Sender) *MQForwarder {
	f := &MQForwarder{sender: sender, timeout: 5 * time.Second}
	for _, topic := range event.AllTopics {
		eventBus.Subscribe(topic, f.handler(topic))
	}
	return f
}

func (f *MQForwarder) handler(topic event.Topic) event.Handler {
	return func(payload interface{}) {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		envelope := mq.NewEnvelope(string(topic), payload)
		if err := f.sender.Send(ctx, envelope); err != nil {
			log.Printf("[MQForwarder] 转发事件 %s (消息ID %s) 失败: %v", topic, envelope.ID, err)
		}
	}
}
