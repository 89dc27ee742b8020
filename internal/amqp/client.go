package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// channel is the subset of *amqp091.Channel the client uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Client publishes model-trained notifications with routingKey on a direct
// exchange. Every consumer binds its own exclusive queue to that key, so each
// server instance receives every notification.
type Client struct {
	conn         *amqp091.Connection
	channel      channel
	exchangeName string
	routingKey   string
}

func NewClient(url, exchangeName, routingKey string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open channel: %w", err), conn.Close())
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}

	if err := client.setup(); err != nil {
		return nil, errors.Join(fmt.Errorf("setup exchange: %w", err), client.Close())
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	return nil
}

// NewModelTrainedMessage builds the notification for a freshly saved model.
// A NaN mse (no holdout rows) is omitted from the payload.
func NewModelTrainedMessage(path string, slope, intercept, mse float64, trainRows, testRows int) *ModelTrainedMessage {
	msg := &ModelTrainedMessage{
		ModelPath: path,
		Slope:     slope,
		Intercept: intercept,
		TrainRows: trainRows,
		TestRows:  testRows,
		Timestamp: time.Now().UTC(),
	}
	if !math.IsNaN(mse) && !math.IsInf(mse, 0) {
		msg.MSE = &mse
	}
	return msg
}

// PublishModelTrained publishes a persistent model-trained notification.
func (c *Client) PublishModelTrained(ctx context.Context, msg *ModelTrainedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published model trained message",
		"model_path", msg.ModelPath,
		"exchange", c.exchangeName,
		"routing_key", c.routingKey)

	return nil
}

// ConsumeModelTrained delivers model-trained messages to handler until ctx
// is cancelled or the channel closes. The messages arrive on a server-named
// exclusive queue that the broker deletes when this consumer goes away.
func (c *Client) ConsumeModelTrained(ctx context.Context, handler func(context.Context, *ModelTrainedMessage) error) error {
	q, err := c.channel.QueueDeclare(
		"",    // name, assigned by the broker
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(q.Name, c.routingKey, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming model trained messages",
		"queue", q.Name,
		"routing_key", c.routingKey)
	return consume(ctx, msgs, handler)
}

func consume(ctx context.Context, msgs <-chan amqp091.Delivery, handler func(context.Context, *ModelTrainedMessage) error) error {
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			handleDelivery(ctx, delivery, handler)
		}
	}
}

// handleDelivery acks processed messages and rejects, without requeue, the
// ones that cannot be decoded or handled.
func handleDelivery(ctx context.Context, delivery amqp091.Delivery, handler func(context.Context, *ModelTrainedMessage) error) {
	msg, err := ModelTrainedMessageFromJSON(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
		if nerr := delivery.Nack(false, false); nerr != nil {
			slog.ErrorContext(ctx, "Failed to nack message", "error", nerr)
		}
		return
	}

	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			"error", err,
			"model_path", msg.ModelPath)
		if nerr := delivery.Nack(false, false); nerr != nil {
			slog.ErrorContext(ctx, "Failed to nack message", "error", nerr)
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		slog.ErrorContext(ctx, "Failed to ack message", "error", err)
	}
}

func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return errors.Join(errs...)
}
