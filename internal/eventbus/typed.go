package eventbus

import (
	"sync"
	"sync/atomic"
)

// Feed is a typed fan-out channel for values of type T. Unlike the generic
// Bus it hands each subscriber a cancel function instead of requiring the
// channel back, so subscriptions survive being passed around.
type Feed[T any] struct {
	mu      sync.RWMutex
	subs    map[int]chan T
	next    int
	buf     int
	closed  bool
	dropped atomic.Uint64
}

// NewFeed creates a Feed whose subscriber channels hold up to n values.
func NewFeed[T any](n int) *Feed[T] {
	if n <= 0 {
		n = 4
	}
	return &Feed[T]{subs: make(map[int]chan T), buf: n}
}

// Publish sends the value to all subscribers without blocking. Values that
// do not fit a subscriber buffer are counted as dropped.
func (f *Feed[T]) Publish(v T) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	for _, ch := range f.subs {
		select {
		case ch <- v:
		default:
			f.dropped.Add(1)
		}
	}
}

// Dropped reports how many values were discarded because a subscriber
// buffer was full.
func (f *Feed[T]) Dropped() uint64 { return f.dropped.Load() }

// Subscribe registers a subscriber and returns its channel together with a
// cancel function. Cancelling twice or after Close is harmless.
func (f *Feed[T]) Subscribe() (<-chan T, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan T, f.buf)
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.next
	f.next++
	f.subs[id] = ch
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				if !f.closed {
					close(c)
				}
			}
		})
	}
	return ch, cancel
}

// Close closes the feed and all subscriber channels.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		close(ch)
		delete(f.subs, id)
	}
}
