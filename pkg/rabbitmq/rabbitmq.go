// Package rabbitmq publishes and consumes storefront domain events.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"etalase/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// EventsQueue receives every storefront event.
const EventsQueue = "storefront_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger

	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the events queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("queue", EventsQueue))
	return &Client{conn: conn, channel: ch, logger: logger}, nil
}

func declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		EventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", EventsQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// EncodeEvent builds the persistent JSON message for event.
func EncodeEvent(event models.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		MessageId:    event.Type + ":" + event.EntityID + ":" + fmt.Sprint(event.OccurredAt.UnixNano()),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
	}, nil
}

// DecodeEvent parses a message body produced by EncodeEvent.
func DecodeEvent(body []byte) (models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return models.Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		return models.Event{}, fmt.Errorf("event without type")
	}
	return event, nil
}

// PublishEvent sends event to the events queue.
func (c *Client) PublishEvent(_ context.Context, event models.Event) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.channel.Publish("", EventsQueue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	c.logger.Debug("event published", zap.String("type", event.Type), zap.String("entity_id", event.EntityID))
	return nil
}

// ConsumeEvents hands every event on the queue to handler until the channel
// closes. Handler failures are requeued; undecodable messages are dropped.
func (c *Client) ConsumeEvents(handler func(models.Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		EventsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for storefront events", zap.String("queue", EventsQueue))
	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler, c.logger)
		}
	}()
	return nil
}

func handleDelivery(msg amqp.Delivery, handler func(models.Event) error, logger *zap.Logger) {
	event, err := DecodeEvent(msg.Body)
	if err != nil {
		logger.Warn("dropping malformed event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			logger.Error("error nacking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if err := handler(event); err != nil {
		logger.Warn("error processing event", zap.String("type", event.Type), zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			logger.Error("error nacking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		logger.Error("error acking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}

// LogEvents returns a handler that writes each event to logger. It is the
// audit trail consumer run alongside the API.
func LogEvents(logger *zap.Logger) func(models.Event) error {
	return func(event models.Event) error {
		logger.Info("storefront event",
			zap.String("type", event.Type),
			zap.String("entity_id", event.EntityID),
			zap.String("store_id", event.StoreID),
			zap.String("actor_id", event.ActorID),
			zap.Duration("lag", time.Since(event.OccurredAt)),
		)
		return nil
	}
}
