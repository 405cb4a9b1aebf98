package notify

import (
	"sync"

	"github.com/homely/homely-back/internal/domain"
)

type EventKind string

const (
	EventJobCreated EventKind = "created"
	EventJobStatus  EventKind = "status"
)

// Event describes a job mutation. Subscribers re-read the store on receipt;
// the event itself carries just enough to render without a fetch.
type Event struct {
	Kind   EventKind        `json:"kind"`
	JobID  string           `json:"id"`
	Status domain.JobStatus `json:"status"`
}

// Hub fans job events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event and catches up on its
// next poll, which keeps the eventual-consistency contract of the polling
// path intact.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func is idempotent and
// must be called when the listener goes away.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
