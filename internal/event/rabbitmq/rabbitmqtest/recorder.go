package rabbitmqtest

import (
	"context"
	"sync"

	"github.com/scoreit/scoreit/internal/event"
)

type EventRecorder struct {
	mu     sync.Mutex
	Events []*event.Event
}

func NewEventRecorder() *EventRecorder {
	return new(EventRecorder)
}

func (r *EventRecorder) Publish(ctx context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
	return nil
}

// Keys returns the routing keys of the recorded events in order.
func (r *EventRecorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		keys = append(keys, e.RoutingKey())
	}
	return keys
}
