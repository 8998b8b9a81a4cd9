package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_BroadcastReachesAllSubscribers(t *testing.T) {
	n := NewNotifier()

	_, first := n.Subscribe()
	_, second := n.Subscribe()

	n.Broadcast()

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive notification")
		}
	}
}

func TestNotifier_BroadcastCoalescesWhileSlow(t *testing.T) {
	n := NewNotifier()

	_, ch := n.Subscribe()

	// Multiple broadcasts against an undrained subscriber collapse into one
	// pending notification instead of blocking the publisher.
	n.Broadcast()
	n.Broadcast()
	n.Broadcast()

	<-ch
	select {
	case <-ch:
		t.Fatal("expected broadcasts to coalesce into a single pending signal")
	default:
	}
}

func TestNotifier_UnsubscribeClosesChannel(t *testing.T) {
	n := NewNotifier()

	id, ch := n.Subscribe()
	n.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)

	// Broadcast after unsubscribe must not panic.
	n.Broadcast()
}
