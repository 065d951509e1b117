// file: internal/realtime/feed.go
// version: 2.0.0
// guid: 5e9b3d7f-1c4a-4f8e-a260-8d2b6e4f0c73

// Package realtime re-emits catalog query snapshots to subscribers whenever
// the underlying store commits a write, suppressing emissions whose snapshot
// is identical to the previous one. Subscribers therefore only see actual
// result-set changes, not every table write.
package realtime

import (
	"log"
	"reflect"
	"sync"

	"github.com/jackykwe/poweramp-helper/internal/database"
)

// Feed turns a snapshot query into a change stream over the store.
type Feed[T any] struct {
	query func() (T, error)

	mu      sync.Mutex
	last    T
	emitted bool
	subs    []chan T
}

// NewFeed registers the feed on the store and returns it. The query runs once
// per committed mutation, on the mutating goroutine; keep it cheap.
func NewFeed[T any](store database.Store, query func() (T, error)) *Feed[T] {
	f := &Feed[T]{query: query}
	store.Subscribe(func(string) { f.refresh() })
	return f
}

// Subscribe returns a channel receiving each distinct snapshot. The channel
// is buffered; a slow subscriber misses intermediate snapshots rather than
// blocking catalog writes.
func (f *Feed[T]) Subscribe() <-chan T {
	ch := make(chan T, 8)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, ch)
	return ch
}

func (f *Feed[T]) refresh() {
	snapshot, err := f.query()
	if err != nil {
		log.Printf("realtime: snapshot query failed: %v", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emitted && reflect.DeepEqual(snapshot, f.last) {
		return
	}
	f.last = snapshot
	f.emitted = true
	for _, ch := range f.subs {
		select {
		case ch <- snapshot:
		default:
			// Subscriber lagging; it will catch up on the next change.
		}
	}
}
