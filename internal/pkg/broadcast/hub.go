// internal/pkg/broadcast/hub.go
package broadcast

import "sync"

// Hub fans out values to subscribers keyed by topic. Each subscriber keeps
// only the latest value; a slow reader never blocks a publisher.
type Hub[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan T
}

// NewHub creates an empty hub
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[string]map[int]chan T)}
}

// Subscribe registers a listener for topic. The returned func removes it and
// closes the channel.
func (h *Hub[T]) Subscribe(topic string) (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, 1)
	id := h.nextID
	h.nextID++

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan T)
	}
	h.subs[topic][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[topic], id)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
			close(ch)
		})
	}
}

// Publish delivers v to every subscriber of topic, replacing any value the
// subscriber has not read yet
func (h *Hub[T]) Publish(topic string, v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[topic] {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribers returns the number of listeners on topic
func (h *Hub[T]) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
