package api

import (
	"sync"
)

// Event is one run-scoped notification pushed to streaming clients.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Broker is the in-memory pub/sub used when REDIS_URL is not set. Slow
// subscribers drop events rather than block publishers.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{} // runId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe(runID string) chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	if b.subs[runID] == nil {
		b.subs[runID] = map[chan Event]struct{}{}
	}
	b.subs[runID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(runID string, ch chan Event) {
	b.mu.Lock()
	if m := b.subs[runID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, runID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

func (b *Broker) Publish(runID string, evt Event) {
	b.mu.Lock()
	m := b.subs[runID]
	for ch := range m {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
