package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Hub fans view events out to websocket subscribers. Publish never blocks;
// a subscriber that falls behind loses events.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger *zap.Logger
}

type Subscription struct {
	ViewID string

	hub  *Hub
	ch   chan Event
	once sync.Once
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

func (h *Hub) Subscribe(viewID string) *Subscription {
	sub := &Subscription{
		ViewID: viewID,
		hub:    h,
		ch:     make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[viewID] == nil {
		h.subs[viewID] = make(map[*Subscription]struct{})
	}
	h.subs[viewID][sub] = struct{}{}
	return sub
}

// Events is closed once the subscription is cancelled or the view closes.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Cancel() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.ViewID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.ViewID)
		}
	}
	s.close()
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[e.ViewID] {
		select {
		case sub.ch <- e:
		default:
			h.logger.Debug("Dropping view event for slow subscriber",
				zap.String("view_id", e.ViewID),
				zap.String("type", string(e.Type)),
			)
		}
	}
}

// Close sends a final Closed event and ends every subscription on viewID.
func (h *Hub) Close(viewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := Event{Type: Closed, ViewID: viewID, At: time.Now()}
	for sub := range h.subs[viewID] {
		select {
		case sub.ch <- closed:
		default:
		}
		sub.close()
	}
	delete(h.subs, viewID)
}

// Subscribers returns the number of live subscriptions on viewID.
func (h *Hub) Subscribers(viewID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[viewID])
}
