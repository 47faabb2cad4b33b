package iis2dlpc

import (
	"fmt"
	"sync"

	"github.com/mklimuk/accel/workq"
)

// TriggerMode selects how interrupts are serviced. It is fixed for the lifetime of a Device.
type TriggerMode int

const (
	TriggerNone TriggerMode = iota
	// TriggerOwnThread services interrupts on a goroutine dedicated to the device.
	TriggerOwnThread
	// TriggerGlobalThread submits servicing to a work queue shared with other drivers.
	TriggerGlobalThread
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerNone:
		return "none"
	case TriggerOwnThread:
		return "own-thread"
	case TriggerGlobalThread:
		return "global-thread"
	default:
		return fmt.Sprintf("TriggerMode(%d)", int(m))
	}
}

func ParseTriggerMode(s string) (TriggerMode, error) {
	for _, m := range []TriggerMode{TriggerNone, TriggerOwnThread, TriggerGlobalThread} {
		if m.String() == s {
			return m, nil
		}
	}
	return TriggerNone, fmt.Errorf("trigger mode %q: %w", s, ErrInvalidValue)
}

type servicer interface {
	// signal must not block. An error means no servicing pass was scheduled.
	signal() error
	stop()
}

func newServicer(d *Device) (servicer, error) {
	switch d.config.TriggerMode {
	case TriggerOwnThread:
		return newOwnThread(d), nil
	case TriggerGlobalThread:
		q := d.config.Queue
		if q == nil {
			q = workq.Default()
		}
		return &globalThread{d: d, queue: q, work: workq.NewWork(d.service)}, nil
	default:
		return nil, fmt.Errorf("trigger mode %s: %w", d.config.TriggerMode, ErrNotSupported)
	}
}

type ownThread struct {
	d    *Device
	sem  chan struct{}
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newOwnThread(d *Device) *ownThread {
	t := &ownThread{
		d:    d,
		sem:  make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	t.wg.Add(1)
	go t.run()
	return t
}

func (t *ownThread) signal() error {
	select {
	case t.sem <- struct{}{}:
	default:
	}
	return nil
}

func (t *ownThread) run() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case <-t.sem:
			t.serve()
		}
	}
}

func (t *ownThread) serve() {
	defer func() {
		if r := recover(); r != nil {
			t.d.logger.Error("trigger handler panicked", "panic", r)
		}
	}()
	t.d.service()
}

func (t *ownThread) stop() {
	t.once.Do(func() {
		close(t.done)
	})
	t.wg.Wait()
}

type globalThread struct {
	d     *Device
	queue *workq.Queue
	work  *workq.Work
}

func (g *globalThread) signal() error {
	_, err := g.queue.Submit(g.work)
	return err
}

// stop leaves the shared queue running; it belongs to whoever created it. Work still queued
// finds the device closed and returns.
func (g *globalThread) stop() {}
