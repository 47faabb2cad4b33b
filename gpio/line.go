package gpio

import "errors"

// Edge is the interrupt configuration of a line.
type Edge int

const (
	EdgeDisabled Edge = iota
	EdgeToActive
)

func (e Edge) String() string {
	if e == EdgeToActive {
		return "edge-to-active"
	}
	return "disabled"
}

var ErrAlreadyWatched = errors.New("line is already watched")

// InterruptLine is a GPIO input wired to a sensor interrupt pad. The handler passed to Watch
// runs on every transition to the active level while the line is configured with EdgeToActive.
// Handlers run on the line's own goroutine and must not block.
type InterruptLine interface {
	Watch(handler func()) error
	ConfigureEdge(edge Edge) error
	Close() error
}
