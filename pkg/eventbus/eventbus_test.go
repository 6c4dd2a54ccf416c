package eventbus

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	topic string
	value int
}

func (e testEvent) Topic() string { return e.topic }

func newTestBus() *Bus {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := newTestBus()

	var got []int
	bus.Subscribe("a", func(e Event) { got = append(got, e.(testEvent).value) })
	bus.Subscribe("a", func(e Event) { got = append(got, e.(testEvent).value*10) })

	bus.Publish(testEvent{topic: "a", value: 1})
	assert.Equal(t, []int{1, 10}, got)
}

func TestSubscribeReplaysLastEvent(t *testing.T) {
	bus := newTestBus()
	bus.Publish(testEvent{topic: "a", value: 1})
	bus.Publish(testEvent{topic: "a", value: 2})

	var got []int
	bus.Subscribe("a", func(e Event) { got = append(got, e.(testEvent).value) })
	assert.Equal(t, []int{2}, got, "late subscriber sees only the latest event")

	bus.Publish(testEvent{topic: "a", value: 3})
	assert.Equal(t, []int{2, 3}, got)
}

func TestSubscribeReplayOrderedAgainstConcurrentPublish(t *testing.T) {
	bus := newTestBus()
	bus.Publish(testEvent{topic: "a", value: 0})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 200; i++ {
			bus.Publish(testEvent{topic: "a", value: i})
		}
	}()

	var mu sync.Mutex
	var got []int
	bus.Subscribe("a", func(e Event) {
		mu.Lock()
		got = append(got, e.(testEvent).value)
		mu.Unlock()
	})
	<-done

	// The replayed event must come first; everything after it is newer.
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1], "event delivered before the retained replay")
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	bus := newTestBus()

	var got []int
	bus.Subscribe("a", func(e Event) { got = append(got, e.(testEvent).value) })
	bus.Publish(testEvent{topic: "b", value: 42})
	assert.Empty(t, got)

	last, ok := bus.Last("b")
	assert.True(t, ok)
	assert.Equal(t, 42, last.(testEvent).value)

	_, ok = bus.Last("a")
	assert.False(t, ok)
}
