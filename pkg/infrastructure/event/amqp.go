package event

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"restro/pkg/domain/service"
)

const routingKeyPrefix = "restro."

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NewAMQPDispatcher declares a durable topic exchange on ch and publishes every
// event to it with the routing key "restro.<EventType>".
func NewAMQPDispatcher(ch *amqp.Channel, exchange string, timeout time.Duration) (service.EventDispatcher, error) {
	err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to declare exchange %s", exchange)
	}
	return newAMQPDispatcher(ch, exchange, timeout), nil
}

func newAMQPDispatcher(p publisher, exchange string, timeout time.Duration) *amqpDispatcher {
	return &amqpDispatcher{
		publisher: p,
		exchange:  exchange,
		timeout:   timeout,
	}
}

type amqpDispatcher struct {
	// amqp channels must not be shared by concurrent publishers.
	mu        sync.Mutex
	publisher publisher
	exchange  string
	timeout   time.Duration
}

func (d *amqpDispatcher) Dispatch(event service.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "failed to encode event %s", event.Type())
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	d.mu.Lock()
	defer d.mu.Unlock()

	err = d.publisher.PublishWithContext(ctx, d.exchange, routingKeyPrefix+event.Type(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         event.Type(),
		Body:         body,
	})
	return errors.Wrapf(err, "failed to publish event %s", event.Type())
}
