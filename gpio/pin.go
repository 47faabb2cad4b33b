package gpio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var _ InterruptLine = &PinLine{}

const edgePollTimeout = 100 * time.Millisecond

// PinLine is an interrupt line on a host GPIO pin, watched with periph.io edge detection.
type PinLine struct {
	pin       gpio.PinIn
	activeLow bool

	mx      sync.Mutex
	armed   bool
	handler func()

	done chan struct{}
	wg   sync.WaitGroup
}

// OpenPin resolves a host pin by name (e.g. "GPIO17") and prepares it for edge detection.
func OpenPin(name string, activeLow bool) (*PinLine, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("interrupt pin %q not found", name)
	}
	return NewPinLine(pin, activeLow)
}

func NewPinLine(pin gpio.PinIn, activeLow bool) (*PinLine, error) {
	edge := gpio.RisingEdge
	if activeLow {
		edge = gpio.FallingEdge
	}
	if err := pin.In(gpio.PullNoChange, edge); err != nil {
		return nil, fmt.Errorf("could not configure pin %s: %w", pin.Name(), err)
	}
	return &PinLine{
		pin:       pin,
		activeLow: activeLow,
		done:      make(chan struct{}),
	}, nil
}

func (l *PinLine) Watch(handler func()) error {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.handler != nil {
		return ErrAlreadyWatched
	}
	l.handler = handler
	l.wg.Add(1)
	go l.loop()
	return nil
}

func (l *PinLine) loop() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		default:
		}
		if l.pin.WaitForEdge(edgePollTimeout) {
			l.fire()
		}
	}
}

func (l *PinLine) fire() {
	l.mx.Lock()
	h := l.handler
	armed := l.armed
	l.mx.Unlock()
	if armed && h != nil {
		h()
	}
}

func (l *PinLine) active() bool {
	return (l.pin.Read() == gpio.High) != l.activeLow
}

// ConfigureEdge arms or disarms the handler. A line found already active when armed is delivered
// immediately since its edge happened while disarmed.
func (l *PinLine) ConfigureEdge(edge Edge) error {
	l.mx.Lock()
	l.armed = edge == EdgeToActive
	deliver := l.armed && l.handler != nil && l.active()
	l.mx.Unlock()
	if deliver {
		slog.Debug("interrupt line active on arm", "pin", l.pin.Name())
		go l.fire()
	}
	return nil
}

func (l *PinLine) Close() error {
	select {
	case <-l.done:
		return nil
	default:
		close(l.done)
	}
	l.wg.Wait()
	return l.pin.Halt()
}
