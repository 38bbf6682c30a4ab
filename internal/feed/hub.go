package feed

import (
	"context"

	"github.com/wayplan/wayplan/internal/logging"
)

const subscriberBuffer = 16

// Subscriber is one connected consumer. Events is closed by the hub on
// unsubscribe or shutdown.
type Subscriber struct {
	UserID string
	Events chan Event
}

// Hub fans events out to subscribers of the matching owner. All state
// is owned by the Run loop; Subscribe, Unsubscribe and Publish
// communicate with it over channels only.
type Hub struct {
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan Event
	subscribers map[*Subscriber]struct{}
	// done is closed when Run exits so late Subscribe/Unsubscribe/
	// Publish calls return instead of blocking on a loop that is gone.
	done   chan struct{}
	logger logging.Logger
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan Event, 64),
		subscribers: make(map[*Subscriber]struct{}),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run owns the subscriber set until ctx is cancelled, then closes every
// subscriber channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for s := range h.subscribers {
				close(s.Events)
			}
			h.subscribers = make(map[*Subscriber]struct{})
			close(h.done)
			return

		case s := <-h.register:
			h.subscribers[s] = struct{}{}

		case s := <-h.unregister:
			if _, ok := h.subscribers[s]; ok {
				delete(h.subscribers, s)
				close(s.Events)
			}

		case e := <-h.broadcast:
			for s := range h.subscribers {
				if s.UserID != e.OwnerID {
					continue
				}
				select {
				case s.Events <- e:
				default:
					// A subscriber that cannot keep up is dropped
					// rather than blocking the loop.
					h.logger.Warn(ctx, "dropping slow feed subscriber", "user_id", s.UserID)
					delete(h.subscribers, s)
					close(s.Events)
				}
			}
		}
	}
}

// Subscribe registers a consumer for the given owner's events. After
// the hub stopped, the returned subscriber's channel is already closed.
func (h *Hub) Subscribe(userID string) *Subscriber {
	s := &Subscriber{UserID: userID, Events: make(chan Event, subscriberBuffer)}
	select {
	case h.register <- s:
	case <-h.done:
		close(s.Events)
	}
	return s
}

// Unsubscribe removes the consumer and closes its channel. Safe to call
// after the subscriber was already dropped or the hub stopped.
func (h *Hub) Unsubscribe(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Publish validates and enqueues an event. Invalid events are logged
// and discarded; a producer bug must not take the feed down. Events
// published after the hub stopped are dropped.
func (h *Hub) Publish(e Event) {
	if err := e.Validate(); err != nil {
		h.logger.Error(context.Background(), "discarding invalid feed event", "error", err)
		return
	}
	select {
	case h.broadcast <- e:
	case <-h.done:
	}
}
