package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/ddd-validator/pkg/channels/gochannel"
	"github.com/dukex/ddd-validator/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.FlowValidated, 1)

	require.NoError(t, bus.Handle(events.FlowValidatedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.FlowValidated)

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	ignored := events.ValidationStarted{BaseEvent: events.NewBaseEvent(events.ValidationStartedEvent, "run-1", "shop")}
	require.NoError(t, bus.Publish(t.Context(), "run-1", ignored))

	sent := events.FlowValidated{
		BaseEvent:  events.NewBaseEvent(events.FlowValidatedEvent, "run-1", "shop"),
		FlowID:     "create-order",
		Normalized: true,
		ErrorCount: 2,
	}
	require.NoError(t, bus.Publish(t.Context(), "run-1", sent))

	select {
	case got := <-received:
		assert.Equal(t, "create-order", got.FlowID)
		assert.Equal(t, 2, got.ErrorCount)
		assert.True(t, got.Normalized)
		assert.Equal(t, "run-1", got.RunID)
	case <-time.After(5 * time.Second):
		t.Fatal("flow.validated event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	assert.NotEmpty(t, bus.GenerateID())
	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}

func TestNewEvent(t *testing.T) {
	assert.IsType(t, &events.ValidationStarted{}, newEvent(events.ValidationStartedEvent))
	assert.IsType(t, &events.FlowValidated{}, newEvent(events.FlowValidatedEvent))
	assert.IsType(t, &events.ValidationCompleted{}, newEvent(events.ValidationCompletedEvent))
	assert.Nil(t, newEvent("workflow.triggered"))
}
