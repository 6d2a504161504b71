// Package events carries committed transaction changes to interested subscribers.
package events

import (
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
)

type Type string

const (
	TransactionCreated Type = "transaction.created"
	TransactionUpdated Type = "transaction.updated"
	TransactionDeleted Type = "transaction.deleted"
)

// Event describes one committed change to an owner's transactions.
type Event struct {
	Type          Type      `json:"type"`
	OwnerID       uuid.UUID `json:"ownerId"`
	TransactionID uuid.UUID `json:"transactionId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher accepts events after the change they describe has been committed.
type Publisher interface {
	Publish(event Event)
}

const DefaultBuffer = 16

type subscription struct {
	owner uuid.UUID
	ch    chan Event
}

// Hub fans events out to subscribers. Publish never blocks: a subscriber whose buffer is
// full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	buffer int
	closed bool
	logger *logrus.Logger
}

var _ Publisher = (*Hub)(nil)

func NewHub(logger *logrus.Logger, buffer int) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]*subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe returns the owner's events and a cancel func that ends the subscription and
// closes the channel.
func (h *Hub) Subscribe(owner uuid.UUID) (<-chan Event, func()) {
	return h.subscribe(owner)
}

// SubscribeAll receives every owner's events.
func (h *Hub) SubscribeAll() (<-chan Event, func()) {
	return h.subscribe(uuid.Nil)
}

func (h *Hub) subscribe(owner uuid.UUID) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = &subscription{owner: owner, ch: ch}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub.ch)
			}
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if sub.owner != uuid.Nil && sub.owner != event.OwnerID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.logger.WithFields(logrus.Fields{
				"eventType": event.Type,
				"ownerId":   event.OwnerID.String(),
			}).Warn("Events.Hub.subscriberFull")
		}
	}
}

// Subscribers reports the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later subscriptions receive an already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
