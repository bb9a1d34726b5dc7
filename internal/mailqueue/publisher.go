package mailqueue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

// DeclareQueue declares the durable mail queue. Producers and consumers both call it so that
// either side can start first.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
}

type Publisher struct {
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{ch: ch, queue: queue, timeout: timeout}
}

func (p *Publisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}
