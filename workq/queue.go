package workq

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	ErrClosed = errors.New("work queue closed")
	ErrFull   = errors.New("work queue full")
)

// Work is a unit of deferred work. A Work is queued at most once at a time: submitting it
// again while it is pending is a no-op, and it never runs concurrently with itself.
type Work struct {
	fn      func()
	pending atomic.Bool
}

func NewWork(fn func()) *Work {
	return &Work{fn: fn}
}

func (w *Work) Pending() bool {
	return w.pending.Load()
}

// Queue runs submitted work items one after another on a single goroutine shared by all
// submitters.
type Queue struct {
	items chan *Work
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewQueue(depth int) *Queue {
	q := &Queue{
		items: make(chan *Work, depth),
		done:  make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

var (
	defaultQueue *Queue
	defaultOnce  sync.Once
)

// Default returns the process wide queue, started on first use.
func Default() *Queue {
	defaultOnce.Do(func() {
		defaultQueue = NewQueue(64)
	})
	return defaultQueue
}

// Submit queues w unless it is already pending. It reports whether w was queued. Submit never
// blocks: ErrFull is returned when depth items are already waiting.
func (q *Queue) Submit(w *Work) (bool, error) {
	if !w.pending.CompareAndSwap(false, true) {
		return false, nil
	}
	select {
	case <-q.done:
		w.pending.Store(false)
		return false, ErrClosed
	default:
	}
	select {
	case q.items <- w:
		return true, nil
	default:
		w.pending.Store(false)
		return false, ErrFull
	}
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case w := <-q.items:
			w.pending.Store(false)
			q.exec(w)
		}
	}
}

func (q *Queue) exec(w *Work) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("work item panicked", "panic", r)
		}
	}()
	w.fn()
}

// Close stops the queue after the running item completes. Items still queued are dropped.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.done)
	})
	q.wg.Wait()
}
