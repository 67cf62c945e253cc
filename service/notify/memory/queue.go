package memory

import (
	"context"
	"sync"

	"github.com/viant/procure/internal/clock"
	"github.com/viant/procure/internal/idgen"
	"github.com/viant/procure/service/notify"
)

// Queue is an in-memory notify.Queue; it is unbounded unless a capacity is
// set, in which case the oldest events are dropped first.
type Queue struct {
	mu       sync.Mutex
	events   []*notify.Event
	capacity int
	dropped  int
	signal   chan struct{}
	done     chan struct{}
	closed   bool
}

var _ notify.Queue = (*Queue)(nil)

// Option configures a Queue.
type Option func(q *Queue)

// WithCapacity bounds the number of queued events; 0 leaves the queue
// unbounded.
func WithCapacity(capacity int) Option {
	return func(q *Queue) { q.capacity = capacity }
}

// New creates an empty queue.
func New(options ...Option) *Queue {
	ret := &Queue{signal: make(chan struct{}, 1), done: make(chan struct{})}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Publish appends a copy of event, assigning ID and CreatedAt when missing.
func (q *Queue) Publish(ctx context.Context, event *notify.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event == nil {
		return nil
	}
	copied := *event
	copied.Roles = append(copied.Roles[:0:0], event.Roles...)
	if copied.ID == "" {
		copied.ID = idgen.New()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = clock.Now()
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return notify.ErrClosed
	}
	q.events = append(q.events, &copied)
	if q.capacity > 0 && len(q.events) > q.capacity {
		overflow := len(q.events) - q.capacity
		q.events = append(q.events[:0:0], q.events[overflow:]...)
		q.dropped += overflow
	}
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

// Consume returns the oldest event, waiting for one when the queue is empty.
func (q *Queue) Consume(ctx context.Context) (*notify.Event, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			event := q.events[0]
			q.events[0] = nil
			q.events = q.events[1:]
			remaining := len(q.events)
			q.mu.Unlock()
			if remaining > 0 {
				select {
				case q.signal <- struct{}{}:
				default:
				}
			}
			return event, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, notify.ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.done:
		case <-q.signal:
		}
	}
}

// Drain removes and returns every queued event.
func (q *Queue) Drain() []*notify.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	ret := q.events
	q.events = nil
	return ret
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns the number of events discarded because of the capacity.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close stops accepting events and wakes every waiting consumer; queued
// events remain consumable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
