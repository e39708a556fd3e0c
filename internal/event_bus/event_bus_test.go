package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var calls []int
		for i := 1; i <= 5; i++ {
			n := i
			bus.Subscribe(TransactionAddedEvent, func(e Event) error {
				calls = append(calls, n)
				return nil
			})
		}

		// when
		err := bus.Publish(NewEvent(context.Background(), TransactionAddedEvent, TransactionAdded{}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
	})

	t.Run("should collect handler errors and recover panics", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(SettingsUpdatedEvent, func(e Event) error { return errors.New("boom") })
		bus.Subscribe(SettingsUpdatedEvent, func(e Event) error { panic("kaboom") })
		bus.Subscribe(SettingsUpdatedEvent, func(e Event) error {
			called = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), SettingsUpdatedEvent, SettingsUpdated{}))

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, called)
	})

	t.Run("should not dispatch on cancelled context", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(SettingsUpdatedEvent, func(e Event) error {
			called = true
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := bus.Publish(NewEvent(ctx, SettingsUpdatedEvent, SettingsUpdated{}))

		// then
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("should stop calling unsubscribed handler", func(t *testing.T) {
		// given
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe(TransactionAddedEvent, func(e Event) error {
			count++
			return nil
		})

		// when
		_ = bus.Publish(NewEvent(context.Background(), TransactionAddedEvent, nil))
		unsubscribe()
		_ = bus.Publish(NewEvent(context.Background(), TransactionAddedEvent, nil))

		// then
		assert.Equal(t, 1, count)
	})
}

func TestSubscribeTyped(t *testing.T) {
	// given
	bus := NewEventBus()
	var received []TransactionAdded
	SubscribeTyped(bus, TransactionAddedEvent, func(e EventT[TransactionAdded]) error {
		received = append(received, e.Data)
		return nil
	})

	// when
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionAddedEvent, TransactionAdded{TransactionId: "a"})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionAddedEvent, "not a payload")))

	// then
	require.Len(t, received, 1)
	assert.Equal(t, "a", received[0].TransactionId)
}
