package masters

import (
	"context"
	"sync"
	"time"

	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/sirupsen/logrus"
)

// Event announces that a collection's cache entry went stale. Actor fields
// come from the gateway identity headers and stay empty in dev.
type Event struct {
	Collection    string    `json:"collection"`
	Action        string    `json:"action"`
	RecordId      string    `json:"record_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationId string    `json:"correlation_id"`
	ActorId       int       `json:"actor_id,omitempty"`
	Actor         string    `json:"actor,omitempty"`
}

// Notifier fans invalidation events out to in-process subscribers and,
// when enabled, broadcasts them over Pub/Sub to other instances.
type Notifier struct {
	mu     sync.Mutex
	subs   []chan Event
	logger *logrus.Logger
}

func NewNotifier(logger *logrus.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Subscribe returns a buffered channel of invalidation events. Slow
// subscribers drop events rather than blocking mutations: invalidation is a
// signal, not a queue.
func (n *Notifier) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()
	return ch
}

func (n *Notifier) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.CorrelationId == "" {
		event.CorrelationId, _ = utils.GetCorrelationIdFromContext(ctx)
	}
	if event.ActorId == 0 {
		event.ActorId, _ = utils.GetUserIdFromContext(ctx)
	}
	if event.Actor == "" {
		event.Actor, _ = utils.GetUserNameFromContext(ctx)
	}

	n.mu.Lock()
	subs := n.subs
	n.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}

	if config.BroadcastInvalidations() {
		go func(ev Event) {
			err := config.PublishInvalidation(config.InvalidationMessage{
				Collection:    ev.Collection,
				Action:        ev.Action,
				RecordId:      ev.RecordId,
				OccurredAt:    ev.OccurredAt,
				CorrelationId: ev.CorrelationId,
			})
			if err != nil && n.logger != nil {
				config.LogError(n.logger, "masters/events.go", "Publish", "PublishInvalidation", ev, err)
			}
		}(event)
	}
}
