package workq

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_RunsWork(t *testing.T) {
	q := NewQueue(4)
	defer q.Close()
	done := make(chan struct{})
	w := NewWork(func() { close(done) })

	queued, err := q.Submit(w)
	require.NoError(t, err)
	assert.True(t, queued)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("work did not run")
	}
}

func TestQueue_PendingDedup(t *testing.T) {
	q := NewQueue(4)
	defer q.Close()
	block := make(chan struct{})
	blocker := NewWork(func() { <-block })
	var runs atomic.Int32
	w := NewWork(func() { runs.Add(1) })

	_, err := q.Submit(blocker)
	require.NoError(t, err)
	queued, err := q.Submit(w)
	require.NoError(t, err)
	assert.True(t, queued)
	assert.True(t, w.Pending())
	queued, err = q.Submit(w)
	require.NoError(t, err)
	assert.False(t, queued)

	close(block)
	assert.Eventually(t, func() bool { return runs.Load() == 1 && !w.Pending() }, time.Second, time.Millisecond)

	// no longer pending: can be queued again
	queued, err = q.Submit(w)
	require.NoError(t, err)
	assert.True(t, queued)
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)
}

func TestQueue_Serialized(t *testing.T) {
	q := NewQueue(16)
	defer q.Close()
	var active, maxActive, runs atomic.Int32
	work := func() {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		runs.Add(1)
	}
	for i := 0; i < 8; i++ {
		_, err := q.Submit(NewWork(work))
		require.NoError(t, err)
	}
	assert.Eventually(t, func() bool { return runs.Load() == 8 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestQueue_PanicDoesNotStopQueue(t *testing.T) {
	q := NewQueue(4)
	defer q.Close()
	_, err := q.Submit(NewWork(func() { panic("boom") }))
	require.NoError(t, err)
	done := make(chan struct{})
	_, err = q.Submit(NewWork(func() { close(done) }))
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queue stopped after panic")
	}
}

func TestQueue_Closed(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	w := NewWork(func() {})
	queued, err := q.Submit(w)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, queued)
	assert.False(t, w.Pending())
}

func TestQueue_FullDoesNotBlock(t *testing.T) {
	q := NewQueue(1)
	defer q.Close()
	started := make(chan struct{})
	block := make(chan struct{})
	defer close(block)
	_, err := q.Submit(NewWork(func() {
		close(started)
		<-block
	}))
	require.NoError(t, err)
	<-started
	_, err = q.Submit(NewWork(func() {}))
	require.NoError(t, err)

	w := NewWork(func() {})
	queued, err := q.Submit(w)
	assert.ErrorIs(t, err, ErrFull)
	assert.False(t, queued)
	assert.False(t, w.Pending())
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
}
