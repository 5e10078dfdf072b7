// Package events fans daemon-side account events out to connected
// subscribers. Delivery is FIFO per subscriber and best-effort: a
// subscriber that stops draining its queue loses events rather than
// blocking the publisher.
package events

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/edvin/gitswitch/internal/model"
)

const subscriberBuffer = 16

// Hub is the in-process event broker behind the websocket endpoint.
type Hub struct {
	logger zerolog.Logger

	mu   sync.Mutex
	subs map[chan model.Event]struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger.With().Str("component", "event-hub").Logger(),
		subs:   make(map[chan model.Event]struct{}),
	}
}

// Subscribe registers a new consumer. The returned cancel func releases
// the subscription and is safe to call more than once.
func (h *Hub) Subscribe() (<-chan model.Event, func()) {
	ch := make(chan model.Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every current subscriber without blocking.
func (h *Hub) Publish(ev model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Warn().Str("event", ev.Name).Msg("dropping event for slow subscriber")
		}
	}
}

// SubscriberCount reports the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
