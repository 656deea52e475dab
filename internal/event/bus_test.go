package event

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	return NewBus(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(TopicCartUpdated, CartUpdatedData{ItemCount: 3, Total: 59.97})

	select {
	case evt := <-ch:
		assert.Equal(t, TopicCartUpdated, evt.Topic)
		data, ok := evt.Data.(CartUpdatedData)
		require.True(t, ok)
		assert.Equal(t, 3, data.ItemCount)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Publish(TopicWishlistUpdated, WishlistUpdatedData{Count: 1})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			assert.Equal(t, TopicWishlistUpdated, evt.Topic)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBusFullSubscriberDoesNotBlock(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	bus.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			bus.Publish(TopicCartCleared, nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on full subscriber")
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := newTestBus()
	ch := bus.Subscribe()
	bus.Close()

	assert.NotPanics(t, func() {
		bus.Publish(TopicCartUpdated, nil)
	})

	_, open := <-ch
	assert.False(t, open)
}
