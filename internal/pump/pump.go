// Package pump is the cooperative event queue a popup session runs on.
// Producers (the host's input source and armed timers) post events from any
// goroutine; exactly one goroutine drains the queue with Next and feeds the
// session, so menu state is never touched concurrently.
package pump

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
)

// ErrStopped is returned by Next once the queue has been stopped.
var ErrStopped = errors.New("pump stopped")

// Queue buffers session events in arrival order.
type Queue struct {
	events chan menu.Event

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// New creates a queue holding up to size undelivered events.
func New(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		events: make(chan menu.Event, size),
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Post enqueues ev, blocking while the queue is full. It reports false when
// the queue was stopped first.
func (q *Queue) Post(ev menu.Event) bool {
	if q.ctx.Err() != nil {
		return false
	}
	select {
	case <-q.ctx.Done():
		return false
	case q.events <- ev:
		return true
	}
}

// Next blocks until an event is available.
func (q *Queue) Next(ctx context.Context) (menu.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.ctx.Done():
		return nil, ErrStopped
	case ev := <-q.events:
		return ev, nil
	}
}

// ScheduleAfter posts TimerFired{Token: tok} once d has elapsed. The timer
// goroutine only enqueues; the event is handled by whoever drains Next.
func (q *Queue) ScheduleAfter(d time.Duration, tok menu.TimerToken) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ctx.Err() != nil {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		q.mu.Lock()
		delete(q.timers, t)
		q.mu.Unlock()
		q.Post(menu.TimerFired{Token: tok})
	})
	q.timers[t] = struct{}{}
}

// Pending is the number of armed timers that have not fired.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Stop cancels armed timers and wakes any blocked Next or Post.
func (q *Queue) Stop() {
	q.mu.Lock()
	for t := range q.timers {
		t.Stop()
		delete(q.timers, t)
	}
	q.mu.Unlock()
	q.cancel()
}
