package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/domain"
)

type fakeChannel struct {
	declared   []string
	published  []amqp091.Publishing
	keys       []string
	publishErr error
	declareErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, exchange+"/"+key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            "ev1",
		AggregateID:   "r1",
		AggregateType: domain.AggregateTypeRecurrenceRule,
		EventType:     domain.EventTypeRecurrenceGenerated,
		Payload:       map[string]any{"rule_id": "r1", "created": 3},
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildPublishing(t *testing.T) {
	msg, err := buildPublishing(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp091.Persistent), msg.DeliveryMode)
	assert.Equal(t, "ev1", msg.MessageId)
	assert.Equal(t, domain.EventTypeRecurrenceGenerated, msg.Type)
	assert.Equal(t, "r1", msg.Headers["aggregate_id"])
	assert.JSONEq(t, `{"rule_id":"r1","created":3}`, string(msg.Body))
}

func TestPublisherRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "famledger.events", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"famledger.events:topic"}, ch.declared)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, []string{"famledger.events/recurrence.generated"}, ch.keys)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisherErrors(t *testing.T) {
	_, err := newPublisher(&fakeChannel{declareErr: errors.New("denied")}, "x", zerolog.Nop())
	require.Error(t, err)

	ch := &fakeChannel{publishErr: errors.New("closed")}
	p, err := newPublisher(ch, "x", zerolog.Nop())
	require.NoError(t, err)

	err = p.Publish(context.Background(), sampleEvent())
	require.ErrorIs(t, err, ch.publishErr)
}
