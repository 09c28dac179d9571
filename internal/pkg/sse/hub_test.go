package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscription(t *testing.T) {
	hub := NewHub()

	ch1, cleanup1 := hub.Subscribe("user-1")
	defer cleanup1()
	ch2, cleanup2 := hub.Subscribe("user-1")
	defer cleanup2()

	assert.Equal(t, 2, hub.SubscriberCount("user-1"))

	hub.Publish("user-1", Event{UserID: "user-1", Event: "notification", Data: "hello"})

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "notification", ev.Event)
			assert.Equal(t, "hello", ev.Data)
		default:
			t.Fatal("expected a buffered event")
		}
	}
}

func TestPublishToUserWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.Publish("nobody", Event{Event: "notification"})
	})
	assert.Equal(t, 0, hub.SubscriberCount("nobody"))
}

func TestPublishToManyStampsRecipient(t *testing.T) {
	hub := NewHub()

	chA, cleanupA := hub.Subscribe("user-a")
	defer cleanupA()
	chB, cleanupB := hub.Subscribe("user-b")
	defer cleanupB()

	hub.PublishToMany([]string{"user-a", "user-b"}, Event{Event: "notification", Data: 1})

	evA := <-chA
	evB := <-chB
	assert.Equal(t, "user-a", evA.UserID)
	assert.Equal(t, "user-b", evB.UserID)
}

func TestPublishSkipsFullChannels(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	for i := 0; i < cap(ch)+5; i++ {
		hub.Publish("user-1", Event{Event: "notification", Data: i})
	}

	assert.Len(t, ch, cap(ch))
}

func TestCleanupRemovesSubscription(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))

	_, open := <-ch
	assert.False(t, open)
}
