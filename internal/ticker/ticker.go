// Package ticker delivers fixed-frequency clock ticks to registered
// callbacks and classifies each tick into an accounting category. It is
// the userspace analog of a timer-interrupt registration interface: one
// tick equals one unit added to exactly one counter downstream.
package ticker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"

	"cpustat_exporter/internal/logger"
)

// Callback is invoked once per elapsed tick. Callbacks must not block:
// the source runs them synchronously on the tick goroutine and a slow
// callback delays every later tick.
type Callback func()

// Source fires callbacks at a fixed tick frequency. Callbacks are
// registered before Start; the set is immutable while running.
type Source struct {
	mu        sync.Mutex
	hz        int
	callbacks []Callback
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	log       log.Logger

	running bool
}

// NewSource creates a tick source firing hz times per second.
func NewSource(hz int) *Source {
	if hz < 1 {
		hz = 1
	}
	return &Source{
		hz:  hz,
		log: logger.NewLoggerWithContext("ticker"),
	}
}

// Hz returns the tick frequency.
func (s *Source) Hz() int {
	return s.hz
}

// Register adds a callback to the tick chain. Registration after Start is
// an error; the running tick loop reads the chain without locking.
func (s *Source) Register(cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("tick source already running")
	}
	s.callbacks = append(s.callbacks, cb)
	return nil
}

// Start launches the tick loop. The loop stops when Stop is called or the
// parent context is cancelled.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("tick source already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	period := time.Second / time.Duration(s.hz)
	callbacks := s.callbacks

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				for _, cb := range callbacks {
					cb()
				}
			}
		}
	}()

	s.log.Debug().Int("hz", s.hz).Int("callbacks", len(callbacks)).Msg("Tick source started")
	return nil
}

// Stop halts tick delivery and waits for the loop to exit. Stopping a
// source that never started is a no-op.
func (s *Source) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Debug().Msg("Tick source stopped")
}
