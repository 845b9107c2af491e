package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type StockListener struct {
	consumer MessageReader
	uc       stock.UseCase
	logger   logger.ZapLogger
}

func NewStockListener(consumer MessageReader, uc stock.UseCase, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

// Start consumes order events until ctx is cancelled.
func (l *StockListener) Start(ctx context.Context) error {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return nil
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event model.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if err := l.Handle(ctx, &event); err != nil {
		l.logger.Error("Failed to apply order event to stock",
			zap.String("event_type", event.EventType),
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}

// Handle applies one event; it also serves as the in-process publisher when
// Kafka is disabled.
func (l *StockListener) Handle(ctx context.Context, event *model.OrderEvent) error {
	switch event.EventType {
	case model.EventOrderConfirmed, model.EventOrderCancelled:
	default:
		return nil
	}
	l.logger.Info("Processing order event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.Payload.ID),
	)
	return l.uc.ApplyOrder(ctx, event)
}
