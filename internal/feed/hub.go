package feed

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TypeHistory   = "history"
	TypeBubbleMap = "bubble_map"
)

// Message is one push-channel frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const defaultBuffer = 16

// Hub fans messages out to live subscribers. Delivery is best-effort and
// non-blocking: a subscriber whose buffer is full is dropped so a slow
// consumer can never stall the settlement path. Messages to a surviving
// subscriber arrive in emission order.
type Hub struct {
	Logger *zap.Logger

	mu      sync.RWMutex
	subs    map[uuid.UUID]chan Message
	dropped uint64
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Logger: logger,
		subs:   map[uuid.UUID]chan Message{},
	}
}

// Subscribe registers a new subscriber and returns its id and receive channel.
func (h *Hub) Subscribe() (uuid.UUID, <-chan Message) {
	id := uuid.New()
	ch := make(chan Message, defaultBuffer)
	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()
	if h.Logger != nil {
		h.Logger.Debug("feed subscriber added", zap.String("subscriber", id.String()))
	}
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call for
// an id that was already dropped.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Broadcast delivers msg to every current subscriber. Sends happen with the
// read lock held: Unsubscribe closes channels only under the write lock, so a
// send can never race a close. Removals happen after the loop so a dead
// subscriber cannot perturb delivery to the others.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}
	var dead []uuid.UUID
	h.mu.RLock()
	for id, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			atomic.AddUint64(&h.dropped, 1)
			dead = append(dead, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range dead {
		h.Unsubscribe(id)
		if h.Logger != nil {
			h.Logger.Warn("feed subscriber dropped", zap.String("subscriber", id.String()))
		}
	}
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports how many sends were discarded for slow subscribers.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}
