package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/event"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	declareErr error
	published  []published
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+"/"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.published = append(f.published, published{exchange, key, msg})
	return nil
}

func TestPublish(t *testing.T) {
	ch := new(fakeChannel)
	p, err := NewPublisher(ch, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"scoreit_topic/topic"}, ch.declared)

	evt := &event.Event{
		ChangedState: &event.ChangedState{
			SessionID: "s",
			From:      scoreit.StateNone,
			To:        scoreit.StateStarted,
		},
	}
	require.NoError(t, p.Publish(context.Background(), evt))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "scoreit_topic", got.exchange)
	assert.Equal(t, event.KeyChangedState, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "STARTED", body["event-changed-state"]["to"])
}

func TestNewPublisherDeclareFails(t *testing.T) {
	boom := errors.New("channel closed")
	_, err := NewPublisher(&fakeChannel{declareErr: boom}, "custom")
	assert.ErrorIs(t, err, boom)
}
