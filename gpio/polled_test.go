package gpio

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level struct {
	mx   sync.Mutex
	high bool
}

func (l *level) set(high bool) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.high = high
}

func (l *level) ReadLevel(ctx context.Context) (bool, error) {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.high, nil
}

func TestPolledLine_RisingEdge(t *testing.T) {
	lvl := &level{}
	line := NewPolledLine(lvl, WithInterval(time.Millisecond))
	var fired atomic.Int32
	require.NoError(t, line.Watch(func() { fired.Add(1) }))
	defer line.Close()
	require.NoError(t, line.ConfigureEdge(EdgeToActive))

	lvl.set(true)
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
	// a level that stays high is a single edge
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestPolledLine_Disarmed(t *testing.T) {
	lvl := &level{}
	line := NewPolledLine(lvl, WithInterval(time.Millisecond))
	var fired atomic.Int32
	require.NoError(t, line.Watch(func() { fired.Add(1) }))
	defer line.Close()

	lvl.set(true)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	// still active when armed again: reported once
	require.NoError(t, line.ConfigureEdge(EdgeToActive))
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
}

func TestPolledLine_ActiveLow(t *testing.T) {
	lvl := &level{high: true}
	line := NewPolledLine(lvl, WithInterval(time.Millisecond), WithActiveLow(true))
	var fired atomic.Int32
	require.NoError(t, line.Watch(func() { fired.Add(1) }))
	defer line.Close()
	require.NoError(t, line.ConfigureEdge(EdgeToActive))

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	lvl.set(false)
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
}

func TestPolledLine_WatchTwice(t *testing.T) {
	line := NewPolledLine(LevelReaderFunc(func(context.Context) (bool, error) { return false, nil }))
	require.NoError(t, line.Watch(func() {}))
	defer line.Close()
	assert.ErrorIs(t, line.Watch(func() {}), ErrAlreadyWatched)
}

func TestMockLine(t *testing.T) {
	line := NewMockLine()
	fired := 0
	require.NoError(t, line.Watch(func() { fired++ }))
	assert.False(t, line.Fire())

	require.NoError(t, line.ConfigureEdge(EdgeToActive))
	<-line.Armed()
	assert.True(t, line.Fire())
	assert.Equal(t, 1, fired)

	require.NoError(t, line.ConfigureEdge(EdgeDisabled))
	assert.False(t, line.Fire())
	assert.Equal(t, []Edge{EdgeToActive, EdgeDisabled}, line.Edges())
	assert.Equal(t, 1, line.Count(EdgeDisabled))

	require.NoError(t, line.Close())
	require.NoError(t, line.ConfigureEdge(EdgeToActive))
	assert.False(t, line.Fire())
}
