package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{}, 2)

	handler := func(ctx context.Context, event Event) {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		done <- struct{}{}
	}
	bus.Subscribe(EventTypeBalanceChange, handler)
	bus.Subscribe(EventTypeBalanceChange, handler)

	bus.Publish(BalanceChangeEvent{UserID: "u1", ChangeAmount: 50})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	change, ok := received[0].(BalanceChangeEvent)
	require.True(t, ok)
	assert.Equal(t, "u1", change.UserID)
}

func TestEmitOnlyMatchingType(t *testing.T) {
	bus := NewBus()

	skips := make(chan Event, 1)
	bus.Subscribe(EventTypeEliminationTurnSkip, func(ctx context.Context, event Event) {
		skips <- event
	})

	bus.Publish(ProfileRegisteredEvent{UserID: "u1"})
	bus.Publish(EliminationTurnSkipEvent{ChannelID: "c1", Skipped: "u1", Next: "u2"})

	select {
	case event := <-skips:
		skip, ok := event.(EliminationTurnSkipEvent)
		require.True(t, ok)
		assert.Equal(t, "c1", skip.ChannelID)
	case <-time.After(time.Second):
		t.Fatal("turn skip handler did not run")
	}
	assert.Empty(t, skips)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(EventTypeProfileRegistered, func(ctx context.Context, event Event) {
		panic("boom")
	})
	done := make(chan struct{}, 1)
	bus.Subscribe(EventTypeProfileRegistered, func(ctx context.Context, event Event) {
		done <- struct{}{}
	})

	bus.Publish(ProfileRegisteredEvent{UserID: "u1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("surviving handler did not run")
	}
}
