package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const dialTimeout = 10 * time.Second

// Message is a JSON message addressed to a topic exchange
type Message struct {
	Timestamp  time.Time
	ID         string
	Exchange   string
	RoutingKey string
	Body       []byte
}

// Publisher is the interface implemented by types that can publish messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close()
}

// EventProducer publishes persistent messages over a single channel.
// Exchanges are declared durable topic exchanges on first use.
type EventProducer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	logger   *slog.Logger
	declared map[string]bool
	mu       sync.Mutex
}

// NewEventProducer dials the broker and opens a channel
func NewEventProducer(amqpURL string, logger *slog.Logger) (*EventProducer, error) {
	cleanURL, err := sanitizeURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &EventProducer{
		conn:     conn,
		channel:  ch,
		logger:   logger.With("component", "rabbitmq_producer"),
		declared: make(map[string]bool),
	}, nil
}

// Publish sends msg. A failed publish reopens the channel and retries once.
func (p *EventProducer) Publish(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.publish(ctx, msg)
	if err == nil {
		return nil
	}

	p.logger.Warn("publish failed; reopening channel",
		"exchange", msg.Exchange,
		"routing_key", msg.RoutingKey,
		"error", err,
	)
	if reopenErr := p.reopen(); reopenErr != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.RoutingKey, err)
	}
	if err := p.publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.RoutingKey, err)
	}
	return nil
}

func (p *EventProducer) publish(ctx context.Context, msg Message) error {
	if !p.declared[msg.Exchange] {
		if err := declareExchange(p.channel, msg.Exchange); err != nil {
			return err
		}
		p.declared[msg.Exchange] = true
	}

	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return p.channel.PublishWithContext(ctx,
		msg.Exchange,
		msg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    timestamp,
			Body:         msg.Body,
		},
	)
}

func (p *EventProducer) reopen() error {
	if p.conn == nil || p.conn.IsClosed() {
		return amqp.ErrClosed
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	p.channel = ch
	p.declared = make(map[string]bool)
	return nil
}

// Close closes the channel and the connection.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// LogPublisher stands in for the broker when none is configured. Messages
// are logged and reported as delivered.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "rabbitmq_producer", "mode", "fallback")}
}

// Publish logs msg
func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	p.logger.InfoContext(ctx, "publish skipped",
		"message_id", msg.ID,
		"exchange", msg.Exchange,
		"routing_key", msg.RoutingKey,
		"body", string(msg.Body),
	)
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() {}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // autoDelete
		false,   // internal
		false,   // noWait
		nil,     // args
	)
}

var (
	_ Publisher = (*EventProducer)(nil)
	_ Publisher = (*LogPublisher)(nil)
)
