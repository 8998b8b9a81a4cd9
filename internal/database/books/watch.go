package books

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// Watch returns a live view of the filtered listing: the current result set
// is delivered immediately, and a fresh one after every catalog change. The
// channel closes when ctx is cancelled. Delivery is single-threaded per
// subscription; pending notifications coalesce while the subscriber is slow,
// so each received snapshot is internally consistent and never torn.
func (r *Repository) Watch(ctx context.Context, filter BookFilter) <-chan []entities.Book {
	out := make(chan []entities.Book, 1)
	id, changes := r.notifier.Subscribe()

	go func() {
		defer close(out)
		defer r.notifier.Unsubscribe(id)

		emit := func() bool {
			books, err := r.List(filter)
			if err != nil {
				// Transient storage failure: keep the subscription alive,
				// the next change re-runs the query.
				log.Error("live query re-run failed", "err", err)
				return true
			}
			select {
			case out <- books:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
