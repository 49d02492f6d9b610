/*
 * @Description: RabbitMQ 消息发布者
 * @Author: 安知鱼
 * @Date: 2025-10-22 14:10:26
 * @LastEditTime: 2025-10-22 15:31:09
 * @LastEditors: 安知鱼
 */
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange 是未配置交换机名称时使用的 topic 交换机
const DefaultExchange = "anheyu.press.events"

// Envelope 是投递到交换机的消息体
type Envelope struct {
	ID         string      `json:"id"`
	Topic      string      `json:"topic"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEnvelope 为一次事件生成带唯一 ID 的消息体
func NewEnvelope(topic string, payload interface{}) *Envelope {
	return &Envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Sender 是发送消息的最小接口，便于替换和测试
type Sender interface {
	Send(ctx context.Context, envelope *Envelope) error
}

// Publisher 持有一条 AMQP 连接和一个 Channel。
// amqp091 的 Channel 不是并发安全的，发送时需要加锁。
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher 连接 RabbitMQ 并声明持久化的 topic 交换机。
// url 为空时返回 nil, nil，表示未启用消息转发。
func NewPublisher(url, exchange string) (*Publisher, error) {
	if url == "" {
		log.Println("RabbitMQ URL 未配置，跳过消息转发")
		return nil, nil
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接 RabbitMQ 失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 RabbitMQ Channel 失败: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明交换机 '%s' 失败: %w", exchange, err)
	}

	log.Printf("✅ RabbitMQ 已连接，交换机: %s", exchange)
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Send 以事件主题为路由键发送一条持久化消息
func (p *Publisher) Send(ctx context.Context, envelope *Envelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, envelope.Topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    envelope.ID,
		Timestamp:    envelope.OccurredAt,
		Type:         envelope.Topic,
		Body:         body,
	})
}

// Close 关闭 Channel 和连接
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
