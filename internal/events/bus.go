// Package events is an in-process pub-sub for engine change notifications.
package events

import (
	"sync"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// Bus fans each published notification out to every subscriber. Each
// subscriber owns a buffered channel; a full subscriber misses the
// notification instead of blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan models.Notification
	nextID uint64
	buffer int
	closed bool
}

// NewBus creates a bus whose subscriber channels hold buffer notifications.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	return &Bus{
		subs:   make(map[uint64]chan models.Notification),
		buffer: buffer,
	}
}

// Publish delivers n to every subscriber without blocking and returns how
// many subscribers received it.
func (b *Bus) Publish(n models.Notification) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- n:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan models.Notification, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.Notification, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Subscribers returns the number of live subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later subscribers get a closed
// channel and later publishes reach nobody.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
