package cpustat

import (
	"sync/atomic"
	"time"
)

// Jiffies is a count of clock ticks. Values only ever grow; wraparound is
// not handled (a 64-bit tick count outlives any realistic process).
type Jiffies uint64

// Duration converts a tick count to wall time at the given tick frequency.
func (j Jiffies) Duration(hz int) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Duration(j) * time.Second / time.Duration(hz)
}

// Seconds converts a tick count to fractional seconds at the given tick
// frequency.
func (j Jiffies) Seconds(hz int) float64 {
	if hz <= 0 {
		return 0
	}
	return float64(j) / float64(hz)
}

// Clock is a monotonically increasing tick counter. Add and Jiffies are
// single atomic operations, so the clock is safe to update from the tick
// callback and read from any goroutine without locks. There is no ordering
// guarantee across distinct clocks.
type Clock struct {
	ticks atomic.Uint64
}

// Add increases the clock by n ticks. It never blocks and never allocates.
func (c *Clock) Add(n uint64) {
	c.ticks.Add(n)
}

// Jiffies returns the current tick count.
func (c *Clock) Jiffies() Jiffies {
	return Jiffies(c.ticks.Load())
}
