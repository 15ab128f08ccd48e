package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shhac/courier/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestPool_LimitsConcurrency(t *testing.T) {
	pool := NewPool(2, logging.NewNopLogger())
	defer pool.Close()

	var running, peak atomic.Int32
	for range 8 {
		pool.Go(func(ctx context.Context) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
		})
	}
	pool.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(0), running.Load())
}

func TestPool_CloseCancelsTasks(t *testing.T) {
	pool := NewPool(1, logging.NewNopLogger())
	started := make(chan struct{})
	var cancelled atomic.Bool
	pool.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	})
	<-started
	pool.Close()
	assert.True(t, cancelled.Load())
}

func TestPool_RecoversPanics(t *testing.T) {
	pool := NewPool(1, logging.NewNopLogger())
	defer pool.Close()

	var ran atomic.Bool
	pool.Go(func(ctx context.Context) { panic("boom") })
	pool.Go(func(ctx context.Context) { ran.Store(true) })
	pool.Wait()
	assert.True(t, ran.Load())
}

func TestSerial_RunsInOrder(t *testing.T) {
	s := NewSerial(logging.NewNopLogger())
	defer s.Close()

	var mu sync.Mutex
	var order []int
	for i := range 10 {
		s.Go(func(ctx context.Context) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	s.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestSerial_GoDoesNotBlock(t *testing.T) {
	s := NewSerial(logging.NewNopLogger())
	release := make(chan struct{})
	s.Go(func(ctx context.Context) { <-release })

	done := make(chan struct{})
	go func() {
		for range 100 {
			s.Go(func(ctx context.Context) {})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go blocked while the worker was busy")
	}
	close(release)
	s.Wait()
	s.Close()
}

func TestSerial_CloseDrainsWithCancelledContext(t *testing.T) {
	s := NewSerial(logging.NewNopLogger())
	release := make(chan struct{})
	s.Go(func(ctx context.Context) { <-release })

	var sawCancel atomic.Bool
	s.Go(func(ctx context.Context) { sawCancel.Store(ctx.Err() != nil) })

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	s.Close()
	assert.True(t, sawCancel.Load())

	s.Go(func(ctx context.Context) { t.Error("task ran after Close") })
}
