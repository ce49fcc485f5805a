// Package relay, WebSocket event'lerini bir AMQP topic exchange'ine yansıtır.
//
// Panel tek instance çalışır; relay başka servislerin (raporlama, bildirim
// worker'ları) canlı event akışını dinleyebilmesi içindir. AMQP_URL boşsa
// hiç kurulmaz.
//
// Publish hiçbir zaman bloklamaz: mesaj kuyruğa alınır, Run goroutine'i
// exchange'e basar. Kuyruk doluysa mesaj düşürülür ve loglanır; hub'ın
// broadcast yolu broker'a bağımlı olmamalı.
package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	queueSize      = 512
	publishTimeout = 5 * time.Second
)

// amqpChannel, kullandığımız amqp091.Channel metotları.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type message struct {
	key  string
	body []byte
}

// Publisher, event'leri exchange'e basan relay.
type Publisher struct {
	conn     *amqp091.Connection
	ch       amqpChannel
	exchange string
	queue    chan message
	log      *zap.Logger

	closeOnce sync.Once
}

// Dial, broker'a bağlanır ve topic exchange'i (durable) declare eder.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	p := newPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newPublisher(ch amqpChannel, exchange string) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		queue:    make(chan message, queueSize),
		log:      zap.L().Named("relay"),
	}
}

// Publish, mesajı kuyruğa alır. Routing key olarak event op'u kullanılır
// ("new_payment", "event_updated" ...).
func (p *Publisher) Publish(routingKey string, body []byte) {
	select {
	case p.queue <- message{key: routingKey, body: body}:
	default:
		p.log.Warn("relay queue full, dropping event", zap.String("op", routingKey))
	}
}

// Run, kuyruğu ctx iptal edilene kadar boşaltır.
// İptalde kuyrukta kalan mesajlar basılmaz.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-p.queue:
			p.publish(ctx, msg)
		}
	}
}

func (p *Publisher) publish(ctx context.Context, msg message) {
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.ch.PublishWithContext(pctx, p.exchange, msg.key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Transient,
		Timestamp:    time.Now().UTC(),
		Body:         msg.body,
	})
	if err != nil {
		p.log.Warn("failed to publish event", zap.String("op", msg.key), zap.Error(err))
	}
}

// Close, channel ve bağlantıyı kapatır.
func (p *Publisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if cerr := p.ch.Close(); cerr != nil {
			err = cerr
		}
		if p.conn != nil {
			if cerr := p.conn.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}
