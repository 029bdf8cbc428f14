package service

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsAndCounts(t *testing.T) {
	d := NewDispatcher(3, 32)
	d.Start()

	var ran atomic.Int64
	for i := 0; i < 10; i++ {
		ok := d.Enqueue(Job{Name: "ok", Run: func() error {
			ran.Add(1)
			return nil
		}})
		require.True(t, ok)
	}
	for i := 0; i < 4; i++ {
		d.Enqueue(Job{Name: "boom", Run: func() error {
			return errors.New("smtp down")
		}})
	}

	// Stop drains the queue before returning
	d.Stop()

	assert.Equal(t, int64(10), ran.Load())
	stats := d.Stats()
	assert.Equal(t, int64(14), stats.Enqueued)
	assert.Equal(t, int64(10), stats.Sent)
	assert.Equal(t, int64(4), stats.Failed)
	assert.Equal(t, int64(0), stats.Dropped)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	// Workers never started, so the buffer is the only capacity
	d := NewDispatcher(1, 1)

	ok := d.Enqueue(Job{Name: "first", Run: func() error { return nil }})
	require.True(t, ok)

	ok = d.Enqueue(Job{Name: "second", Run: func() error { return nil }})
	assert.False(t, ok)
	assert.Equal(t, int64(1), d.Stats().Dropped)
}

func TestDispatcher_StopIsIdempotent(t *testing.T) {
	d := NewDispatcher(2, 8)
	d.Start()
	d.Stop()
	assert.NotPanics(t, func() { d.Stop() })
}
