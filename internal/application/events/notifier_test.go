package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifier_DeliversInSubscriptionOrder(t *testing.T) {
	n := NewNotifier()

	var got []string
	n.Subscribe(func(c Change) { got = append(got, "first:"+c.ID) })
	n.Subscribe(func(c Change) { got = append(got, "second:"+c.ID) })

	n.Publish(Change{Collection: "tasks", Op: OpAdd, ID: "t_1"})

	require.Equal(t, []string{"first:t_1", "second:t_1"}, got)
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()

	calls := 0
	unsub := n.Subscribe(func(Change) { calls++ })
	require.Equal(t, 1, n.SubscriberCount())

	unsub()
	unsub()
	n.Publish(Change{Collection: "tasks", Op: OpRemove})

	require.Zero(t, calls)
	require.Zero(t, n.SubscriberCount())
}

func TestNotifier_HandlerMaySubscribeDuringPublish(t *testing.T) {
	n := NewNotifier()

	n.Subscribe(func(Change) {
		n.Subscribe(func(Change) {})
	})

	require.NotPanics(t, func() { n.Publish(Change{Collection: "stats", Op: OpUpdate}) })
	require.Equal(t, 2, n.SubscriberCount())
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	require.NotPanics(t, func() { n.Publish(Change{}) })
	require.Zero(t, n.SubscriberCount())
}
