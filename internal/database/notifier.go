package database

import "sync"

// Notifier fans out change notifications to live-query subscribers. Each
// subscriber gets a buffered channel of capacity one: broadcasts coalesce
// instead of blocking writers, so a slow reader only ever misses
// intermediate states, never the latest one.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Subscribe registers a new listener and returns its id and channel.
// The channel is closed by Unsubscribe.
func (n *Notifier) Subscribe() (int, <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch
	return id, ch
}

func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.subs[id]; ok {
		delete(n.subs, id)
		close(ch)
	}
}

// Broadcast wakes every subscriber. Non-blocking: if a subscriber already
// has a pending notification the new one is coalesced into it.
func (n *Notifier) Broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
