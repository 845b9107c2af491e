package listener

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock/dto"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUseCase struct {
	applied []string
}

func (r *recordingUseCase) AdjustStock(context.Context, *dto.AdjustStockInput) (*model.StockMovement, error) {
	return nil, nil
}

func (r *recordingUseCase) ApplyOrder(_ context.Context, event *model.OrderEvent) error {
	r.applied = append(r.applied, event.EventType+":"+event.Payload.ID)
	return nil
}

func (r *recordingUseCase) ListMovements(context.Context, *dto.MovementFilters) (*model.Page[model.StockMovement], error) {
	return nil, nil
}

// queueReader hands out queued messages, then blocks until ctx is done.
type queueReader struct {
	messages [][]byte
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := q.messages[0]
	q.messages = q.messages[1:]
	return kafka.Message{Value: msg}, nil
}

func encode(t *testing.T, eventType, id string) []byte {
	b, err := json.Marshal(model.OrderEvent{EventType: eventType, Payload: model.OrderEventPayload{ID: id}})
	require.NoError(t, err)
	return b
}

func TestListenerAppliesStockEvents(t *testing.T) {
	uc := &recordingUseCase{}
	reader := &queueReader{messages: [][]byte{
		encode(t, model.EventOrderCreated, "o1"),
		encode(t, model.EventOrderConfirmed, "o1"),
		[]byte("{not json"),
		encode(t, model.EventOrderCancelled, "o2"),
	}}
	l := NewStockListener(reader, uc, testutil.Logger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, l.Start(ctx))

	assert.Equal(t, []string{"OrderConfirmed:o1", "OrderCancelled:o2"}, uc.applied)
}

func TestHandleSkipsOtherEvents(t *testing.T) {
	uc := &recordingUseCase{}
	l := NewStockListener(nil, uc, testutil.Logger(t))

	require.NoError(t, l.Handle(context.Background(), &model.OrderEvent{EventType: model.EventOrderCreated}))
	assert.Empty(t, uc.applied)
}
