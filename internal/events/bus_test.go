package events_test

import (
	"testing"

	"github.com/puckbridge/puckbridge/internal/events"
	"github.com/stretchr/testify/require"
)

func TestDispatchOrderGlobalsFirst(t *testing.T) {
	bus := events.NewBus()

	var calls []string
	bus.Subscribe("goal_scored", func(map[string]any) {
		calls = append(calls, "typed-1")
	})
	bus.SubscribeGlobal(func(string, map[string]any) {
		calls = append(calls, "global-1")
	})
	bus.SubscribeGlobal(func(string, map[string]any) {
		calls = append(calls, "global-2")
	})
	bus.Subscribe("goal_scored", func(map[string]any) {
		calls = append(calls, "typed-2")
	})

	bus.Dispatch("goal_scored", map[string]any{})

	require.Equal(t, []string{"global-1", "global-2", "typed-1", "typed-2"}, calls)
}

func TestDispatchPassesTypeAndPayload(t *testing.T) {
	bus := events.NewBus()
	payload := map[string]any{"team": "blue"}

	var gotType string
	var gotPayload map[string]any
	bus.SubscribeGlobal(func(eventType string, data map[string]any) {
		gotType = eventType
		gotPayload = data
	})

	bus.Dispatch("goal_scored", payload)

	require.Equal(t, "goal_scored", gotType)
	require.Equal(t, payload, gotPayload)
}

func TestDispatchIsolatesPanickingHandler(t *testing.T) {
	bus := events.NewBus()

	var calls []string
	bus.SubscribeGlobal(func(string, map[string]any) {
		panic("global boom")
	})
	bus.Subscribe("tick", func(map[string]any) {
		panic("typed boom")
	})
	bus.Subscribe("tick", func(map[string]any) {
		calls = append(calls, "survivor")
	})

	require.NotPanics(t, func() {
		bus.Dispatch("tick", map[string]any{})
	})
	require.Equal(t, []string{"survivor"}, calls)
}

func TestDuplicateRegistrationInvokedTwice(t *testing.T) {
	bus := events.NewBus()

	count := 0
	handler := func(map[string]any) { count++ }
	bus.Subscribe("tick", handler)
	bus.Subscribe("tick", handler)

	bus.Dispatch("tick", nil)

	require.Equal(t, 2, count)
}

func TestUnsubscribe(t *testing.T) {
	bus := events.NewBus()

	var calls []string
	first := bus.Subscribe("tick", func(map[string]any) {
		calls = append(calls, "first")
	})
	bus.Subscribe("tick", func(map[string]any) {
		calls = append(calls, "second")
	})

	bus.Unsubscribe(first)
	bus.Dispatch("tick", nil)

	require.Equal(t, []string{"second"}, calls)

	// Removing twice is a no-op.
	bus.Unsubscribe(first)
	bus.Dispatch("tick", nil)
	require.Equal(t, []string{"second", "second"}, calls)
}

func TestUnsubscribeGlobal(t *testing.T) {
	bus := events.NewBus()

	count := 0
	sub := bus.SubscribeGlobal(func(string, map[string]any) { count++ })

	bus.Dispatch("tick", nil)
	bus.Unsubscribe(sub)
	bus.Dispatch("tick", nil)

	require.Equal(t, 1, count)
}

func TestRegisteredTypes(t *testing.T) {
	bus := events.NewBus()
	require.Empty(t, bus.RegisteredTypes())

	bus.Subscribe("goal_scored", func(map[string]any) {})
	sub := bus.Subscribe("tick", func(map[string]any) {})

	require.ElementsMatch(t, []string{"goal_scored", "tick"}, bus.RegisteredTypes())

	bus.Unsubscribe(sub)
	require.ElementsMatch(t, []string{"goal_scored"}, bus.RegisteredTypes())
}

func TestDispatchWithoutHandlers(t *testing.T) {
	bus := events.NewBus()

	require.NotPanics(t, func() {
		bus.Dispatch("nobody-listens", map[string]any{})
	})
}
