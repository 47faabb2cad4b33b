package gpio

import (
	"sync"
)

var _ InterruptLine = &MockLine{}

// MockLine is an interrupt line driven by tests. Fire simulates an edge on the pad and runs the
// handler synchronously when the line is armed, the way an interrupt service routine would.
type MockLine struct {
	mx      sync.Mutex
	handler func()
	armed   bool
	edges   []Edge
	closed  bool
	armedCh chan struct{}
}

func NewMockLine() *MockLine {
	return &MockLine{armedCh: make(chan struct{}, 64)}
}

func (m *MockLine) Watch(handler func()) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.handler != nil {
		return ErrAlreadyWatched
	}
	m.handler = handler
	return nil
}

func (m *MockLine) ConfigureEdge(edge Edge) error {
	m.mx.Lock()
	m.armed = edge == EdgeToActive
	m.edges = append(m.edges, edge)
	m.mx.Unlock()
	if edge == EdgeToActive {
		select {
		case m.armedCh <- struct{}{}:
		default:
		}
	}
	return nil
}

// Fire reports whether the handler ran.
func (m *MockLine) Fire() bool {
	m.mx.Lock()
	h := m.handler
	armed := m.armed && !m.closed
	m.mx.Unlock()
	if !armed || h == nil {
		return false
	}
	h()
	return true
}

// Armed returns a channel receiving a value every time the line is armed.
func (m *MockLine) Armed() <-chan struct{} {
	return m.armedCh
}

func (m *MockLine) IsArmed() bool {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.armed
}

// Edges returns every configuration applied so far.
func (m *MockLine) Edges() []Edge {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]Edge(nil), m.edges...)
}

// Count returns how many times edge was configured.
func (m *MockLine) Count(edge Edge) int {
	m.mx.Lock()
	defer m.mx.Unlock()
	n := 0
	for _, e := range m.edges {
		if e == edge {
			n++
		}
	}
	return n
}

func (m *MockLine) Close() error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.closed = true
	return nil
}
