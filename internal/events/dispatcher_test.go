package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var got []events.Event
	d.Subscribe(events.EventRequestCreated, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(events.EventRequestCreated, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	err := d.Publish(context.Background(), events.Event{
		ID:        "e1",
		Type:      events.EventRequestCreated,
		Timestamp: time.Now(),
		Payload:   events.RequestCreatedPayload{RequestID: "r1", Number: 42},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	payload, ok := got[0].Payload.(events.RequestCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "r1", payload.RequestID)
	assert.EqualValues(t, 42, payload.Number)
}

func TestDispatcherIgnoresOtherTypes(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	called := false
	d.Subscribe(events.EventChatMessageAdded, func(_ context.Context, _ events.Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventRequestStateChanged}))
	assert.False(t, called)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(events.EventContractHoursLow, func(_ context.Context, _ events.Event) error {
		return errors.New("boom")
	})
	d.Subscribe(events.EventContractHoursLow, func(_ context.Context, _ events.Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventContractHoursLow}))
	assert.True(t, reached)
}
