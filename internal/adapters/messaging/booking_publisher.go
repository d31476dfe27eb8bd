package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/telehealth-companion/booking-service/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

func (rmq *RabbitMQBroker) PublishBookingCreated(ctx context.Context, evt ports.BookingCreatedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	// Circuit breaker guards the publish so a broker outage cannot pile
	// up blocked relay workers.
	_, err = rmq.cb.Execute(func() (any, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
