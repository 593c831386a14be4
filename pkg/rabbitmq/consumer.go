package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one message body. Returning false requeues the message.
type Handler func(ctx context.Context, body []byte) bool

// Binding routes messages with RoutingKey from Exchange to Handler
type Binding struct {
	Handler    Handler
	Exchange   string
	RoutingKey string
}

// Consumer reads from one durable queue
type Consumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// NewConsumer dials the broker and opens a channel
func NewConsumer(amqpURL string, logger *slog.Logger) (*Consumer, error) {
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

	return &Consumer{conn: conn, ch: ch, logger: logger.With("component", "rabbitmq_consumer")}, nil
}

// Consume declares queueName, binds it and dispatches deliveries until ctx
// is done or the broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, queueName string, bindings []Binding) error {
	if len(bindings) == 0 {
		return errors.New("no bindings provided")
	}

	q, err := c.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	handlers := make(map[string]Handler, len(bindings))
	for _, b := range bindings {
		if b.Handler == nil {
			continue
		}
		if err := declareExchange(c.ch, b.Exchange); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", b.Exchange, err)
		}
		if err := c.ch.QueueBind(q.Name, b.RoutingKey, b.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", b.RoutingKey, q.Name, err)
		}
		handlers[b.RoutingKey] = b.Handler
	}

	if err := c.ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := c.ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", q.Name, err)
	}

	c.logger.Info("consuming", "queue", q.Name, "bindings", len(handlers))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("delivery channel closed by broker")
			}
			c.dispatch(ctx, handlers, d)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, handlers map[string]Handler, d amqp.Delivery) {
	handler, ok := handlers[d.RoutingKey]
	if !ok {
		c.logger.Warn("no handler for routing key; dropping", "routing_key", d.RoutingKey)
		_ = d.Ack(false)
		return
	}

	if handler(ctx, d.Body) {
		if err := d.Ack(false); err != nil {
			c.logger.Error("failed to ack delivery", "routing_key", d.RoutingKey, "error", err)
		}
		return
	}

	c.logger.Warn("handler failed; requeuing", "routing_key", d.RoutingKey)
	if err := d.Nack(false, true); err != nil {
		c.logger.Error("failed to nack delivery", "routing_key", d.RoutingKey, "error", err)
	}
}

// Close closes the channel and the connection.
func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
