package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesTopicSubscribers(t *testing.T) {
	h := NewHub[int]()
	a, cancelA := h.Subscribe("alice")
	defer cancelA()
	b, cancelB := h.Subscribe("bob")
	defer cancelB()

	h.Publish("alice", 7)

	assert.Equal(t, 7, <-a)
	select {
	case v := <-b:
		t.Fatalf("bob received %d", v)
	default:
	}
}

func TestSlowSubscriberKeepsLatestValue(t *testing.T) {
	h := NewHub[int]()
	ch, cancel := h.Subscribe("alice")
	defer cancel()

	h.Publish("alice", 1)
	h.Publish("alice", 2)
	h.Publish("alice", 3)

	assert.Equal(t, 3, <-ch)
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub[string]()
	ch, cancel := h.Subscribe("alice")
	require.Equal(t, 1, h.Subscribers("alice"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers("alice"))

	h.Publish("alice", "ignored")
}
