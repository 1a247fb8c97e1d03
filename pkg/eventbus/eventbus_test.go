package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/pkg/eventbus"
)

type createdEvent struct {
	ID string
}

func TestPublishDispatchesToMatchingHandler(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	var got []string
	bus.Subscribe(func(e createdEvent) {
		got = append(got, e.ID)
	})
	bus.Subscribe(func(n int) {
		t.Fatal("handler with mismatched signature must not run")
	})

	bus.Publish(createdEvent{ID: "a"})
	bus.Publish(createdEvent{ID: "b"})

	require.Equal(t, []string{"a", "b"}, got)
}

func TestUnsubscribe(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	calls := 0
	handler := func(e createdEvent) { calls++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(createdEvent{})
	bus.Unsubscribe(handler)
	bus.Publish(createdEvent{})

	require.Equal(t, 1, calls)
	require.Zero(t, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	ok := eventbus.MatchSignature(func(e createdEvent) {}, []interface{}{createdEvent{}})
	require.True(t, ok)

	ok = eventbus.MatchSignature(func(e createdEvent) {}, []interface{}{42})
	require.False(t, ok)

	ok = eventbus.MatchSignature("not a func", []interface{}{42})
	require.False(t, ok)
}
