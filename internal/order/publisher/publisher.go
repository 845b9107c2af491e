package publisher

import (
	"context"
	"encoding/json"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/broker"
	"github.com/pkg/errors"
)

// KafkaPublisher writes order events to the orders topic keyed by order id.
type KafkaPublisher struct {
	producer *broker.KafkaProducer
}

func NewKafkaPublisher(producer *broker.KafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *model.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}
	return p.producer.Publish(ctx, event.Payload.ID, value)
}

// Func adapts an in-process handler, used when Kafka is disabled.
type Func func(ctx context.Context, event *model.OrderEvent) error

func (f Func) Publish(ctx context.Context, event *model.OrderEvent) error {
	return f(ctx, event)
}
