package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stock-service/internal/events"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var seen []events.EventType
	d.Subscribe(events.EventLoginSucceeded, func(ctx context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})
	d.Subscribe(events.EventLoginFailed, func(ctx context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventLoginSucceeded, Username: "somchai"})
	require.NoError(t, err)
	assert.Equal(t, []events.EventType{events.EventLoginSucceeded}, seen)
}

func TestDispatcherRunsAllHandlersDespiteErrors(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	boom := errors.New("boom")
	var calls int
	d.Subscribe(events.EventAccountRegistered, func(ctx context.Context, e events.Event) error {
		calls++
		return boom
	})
	d.Subscribe(events.EventAccountRegistered, func(ctx context.Context, e events.Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventAccountRegistered})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
