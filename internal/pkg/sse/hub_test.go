package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicOnly(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe("department:1")
	defer cancelA()
	b, cancelB := h.Subscribe("department:2")
	defer cancelB()

	h.Publish("department:1", Event{Event: "grafik.updated", Data: 42})

	select {
	case ev := <-a:
		assert.Equal(t, "department:1", ev.Topic)
		assert.Equal(t, "grafik.updated", ev.Event)
		assert.Equal(t, 42, ev.Data)
	default:
		t.Fatal("subscriber of department:1 got nothing")
	}
	assert.Len(t, b, 0)
}

func TestHub_CleanupUnregisters(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("department:1")
	require.Equal(t, 1, h.SubscriberCount("department:1"))

	cancel()
	cancel()

	assert.Equal(t, 0, h.TotalSubscribers())
	_, open := <-ch
	assert.False(t, open)
	// Publishing to a topic without subscribers is a no-op.
	h.Publish("department:1", Event{Event: "grafik.updated"})
}

func TestHub_FullBufferDropsEvents(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("t")
	defer cancel()

	for i := 0; i < 100; i++ {
		h.Publish("t", Event{Event: "x", Data: i})
	}
	assert.Equal(t, cap(ch), len(ch))
}
