package gpio

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var _ InterruptLine = &PolledLine{}

// LevelReader samples the current level of an input, true meaning high.
type LevelReader interface {
	ReadLevel(ctx context.Context) (bool, error)
}

// LevelReaderFunc adapts a function to LevelReader.
type LevelReaderFunc func(ctx context.Context) (bool, error)

func (f LevelReaderFunc) ReadLevel(ctx context.Context) (bool, error) {
	return f(ctx)
}

type PolledLineOpts struct {
	Interval  time.Duration
	ActiveLow bool
}

type PolledLineOpt func(*PolledLineOpts)

func WithInterval(d time.Duration) PolledLineOpt {
	return func(o *PolledLineOpts) {
		o.Interval = d
	}
}

func WithActiveLow(activeLow bool) PolledLineOpt {
	return func(o *PolledLineOpts) {
		o.ActiveLow = activeLow
	}
}

// PolledLine emulates edge detection on inputs without interrupt support, such as the GP pins
// of a USB bridge, by sampling the level periodically.
type PolledLine struct {
	reader LevelReader
	config PolledLineOpts

	mx      sync.Mutex
	armed   bool
	handler func()
	last    bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPolledLine(reader LevelReader, opts ...PolledLineOpt) *PolledLine {
	config := PolledLineOpts{
		Interval: 5 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &PolledLine{reader: reader, config: config}
}

func (l *PolledLine) Watch(handler func()) error {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.handler != nil {
		return ErrAlreadyWatched
	}
	l.handler = handler
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.wg.Add(1)
	go l.loop(ctx)
	return nil
}

func (l *PolledLine) loop(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		level, err := l.reader.ReadLevel(ctx)
		if err != nil {
			slog.Debug("could not sample interrupt line", "error", err)
			continue
		}
		active := level != l.config.ActiveLow
		l.mx.Lock()
		rising := active && !l.last
		l.last = active
		h := l.handler
		armed := l.armed
		l.mx.Unlock()
		if rising && armed {
			h()
		}
	}
}

// ConfigureEdge arms or disarms the line. Arming clears the remembered level so a line that stayed
// active while disarmed is reported on the next sample.
func (l *PolledLine) ConfigureEdge(edge Edge) error {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.armed = edge == EdgeToActive
	if l.armed {
		l.last = false
	}
	return nil
}

func (l *PolledLine) Close() error {
	l.mx.Lock()
	cancel := l.cancel
	l.mx.Unlock()
	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
	return nil
}
