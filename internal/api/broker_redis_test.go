package api

import (
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
)

func TestForwardMessagesDecodesAndCloses(t *testing.T) {
	msgs := make(chan *redis.Message, 2)
	ch := make(chan Event, 2)
	go forwardMessages(msgs, ch)

	msgs <- &redis.Message{Payload: `{"type":"run.completed","data":{"runId":"run_1"}}`}
	select {
	case evt := <-ch:
		if evt.Type != "run.completed" {
			t.Fatalf("event type: %s", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no event forwarded")
	}

	// malformed payloads are skipped, not forwarded
	msgs <- &redis.Message{Payload: `not json`}

	// closing the message stream is the one thing that closes ch
	close(msgs)
	select {
	case evt, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event after malformed payload: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after stream ended")
	}
}

func TestRedisBrokerUnsubscribeLeavesChannelToReader(t *testing.T) {
	b := &RedisBroker{subs: map[chan Event]*redis.PubSub{}}
	ch := make(chan Event, 1)
	// Unsubscribe must not close the channel itself; only the forwarding
	// goroutine may. A send afterwards must not panic.
	b.Unsubscribe("run_x", ch)
	select {
	case ch <- Event{Type: "anneal.progress"}:
	default:
		t.Fatal("channel should still accept sends after unsubscribe")
	}
}
