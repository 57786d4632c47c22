package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"allsers_backend/internal/logger"
)

type RabbitConfig struct {
	URL       string
	QueueName string
}

// RabbitQueue is the production delivery queue. Tasks are persistent so a
// broker restart does not drop pending push/email deliveries.
type RabbitQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	config  RabbitConfig
}

func NewRabbitQueue(config RabbitConfig) (*RabbitQueue, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := channel.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitQueue{
		conn:    conn,
		channel: channel,
		queue:   q,
		config:  config,
	}, nil
}

func (r *RabbitQueue) Publish(ctx context.Context, task DeliveryTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery task: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish delivery task: %w", err)
	}

	return nil
}

func (r *RabbitQueue) Consume(ctx context.Context, handler Handler) error {
	if err := r.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume messages: %w", err)
	}

	go r.handleMessages(ctx, msgs, handler)
	return nil
}

func (r *RabbitQueue) handleMessages(ctx context.Context, msgs <-chan amqp.Delivery, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("delivery queue consumer stopped")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn("delivery queue channel closed")
				return
			}

			var task DeliveryTask
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				logger.WithError(err).Error("dropping malformed delivery task")
				msg.Nack(false, false)
				continue
			}

			if err := handler(ctx, task); err != nil {
				// The handler owns retry accounting; a returned error means
				// the task is spent and must not be requeued.
				logger.WithError(err).Error("delivery task failed permanently",
					"kind", string(task.Kind), "recipient_id", task.RecipientID)
			}
			msg.Ack(false)
		}
	}
}

func (r *RabbitQueue) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
