// Package events carries the process-wide signals the core raises for UI
// collaborators. Signals have no payload; consumers re-fetch details on
// demand.
package events

import "sync"

// Event names the signal being raised.
type Event string

const (
	// NewActivity is raised by the background poller when unread activity
	// is detected.
	NewActivity Event = "new_activity"
	// SessionDataChanged is raised after mutations that alter displayed
	// identity info (settings or password updates).
	SessionDataChanged Event = "session_data_changed"
)

// subscriber channels are buffered; a slow consumer drops signals rather
// than blocking the publisher.
const subscriberBuffer = 8

// Bus fans events out to subscribers.
type Bus struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new consumer and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers e to every subscriber without blocking. Events for full
// subscriber buffers are dropped.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
