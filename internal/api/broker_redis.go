package api

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// EventBroker fans run events out to streaming subscribers.
type EventBroker interface {
	Subscribe(runID string) chan Event
	Unsubscribe(runID string, ch chan Event)
	Publish(runID string, evt Event)
}

// RedisBroker implements EventBroker over Redis Pub/Sub so multiple API
// replicas can serve the same event stream. Each subscriber owns one PubSub;
// Unsubscribe closes the PubSub and the reader goroutine is the only closer
// of the event channel, so publishers can never hit a closed channel.
type RedisBroker struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs map[chan Event]*redis.PubSub
}

func NewRedisBroker() (*RedisBroker, error) {
	opt, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: redis.NewClient(opt), subs: map[chan Event]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(runID string) chan Event {
	ch := make(chan Event, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(runID))
	// initial consume to ensure subscription
	_, _ = ps.Receive(ctx)
	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()
	go forwardMessages(ps.Channel(), ch)
	return ch
}

// forwardMessages drains the PubSub message stream into the event channel and
// closes it when the stream ends. It holds the sole right to close ch.
func forwardMessages(msgs <-chan *redis.Message, ch chan Event) {
	defer close(ch)
	for msg := range msgs {
		var evt Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
			select {
			case ch <- evt:
			default:
			}
		}
	}
}

// Unsubscribe closes the subscriber's PubSub; go-redis then closes the
// message stream, the forwarding goroutine exits, and ch is closed by it.
func (b *RedisBroker) Unsubscribe(runID string, ch chan Event) {
	b.mu.Lock()
	ps := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()
	if ps != nil {
		_ = ps.Close()
	}
}

func (b *RedisBroker) Publish(runID string, evt Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(runID), data).Err()
}

func (b *RedisBroker) chanName(runID string) string { return "run:" + runID }
