// Package hoststats implements the classifier probes and the scheduler
// and boot-time collaborators on top of host statistics from gopsutil.
// Each tick it samples per-CPU time deltas and replays them through the
// classifier, so the accounting engine sees the same classification chain
// it would see from a real timer interrupt.
package hoststats

import (
	"runtime"
	"time"

	"github.com/phuslu/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"

	"cpustat_exporter/internal/logger"
	"cpustat_exporter/internal/ticker"
)

// DetectCPUs returns the host's logical CPU count, falling back to the
// runtime's view when the host query fails.
func DetectCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Sampler drives tick classification from host CPU time deltas. It
// implements ticker.CPUProbe, ticker.SchedProbe and ticker.TrapProbe for
// whichever CPU it is currently replaying, plus the SchedInfo and
// BootClock collaborators of the stat renderer.
//
// The probe state (curCPU and the two classification bits) is only
// mutated inside OnTick, which runs on the tick goroutine; the classifier
// reads it synchronously from the same goroutine.
type Sampler struct {
	classifier *ticker.Classifier
	numCPUs    int
	prev       []cpu.TimesStat
	havePrev   bool
	log        log.Logger

	curCPU    int
	curIdle   bool
	curKernel bool
}

// NewSampler creates a sampler replaying ticks for numCPUs CPUs.
func NewSampler(numCPUs int) *Sampler {
	return &Sampler{
		numCPUs: numCPUs,
		log:     logger.NewLoggerWithContext("hoststats"),
	}
}

// Bind attaches the classifier the sampler replays ticks through. Must be
// called before the tick source starts.
func (s *Sampler) Bind(c *ticker.Classifier) {
	s.classifier = c
}

// CurrentCPU implements ticker.CPUProbe.
func (s *Sampler) CurrentCPU() int { return s.curCPU }

// IdlePolicy implements ticker.SchedProbe.
func (s *Sampler) IdlePolicy() bool { return s.curIdle }

// KernelInterrupted implements ticker.TrapProbe.
func (s *Sampler) KernelInterrupted() bool { return s.curKernel }

// OnTick is the tick source callback. It samples host per-CPU times,
// classifies each CPU's dominant state since the previous tick and runs
// one classifier pass per CPU. Sampling failures and the baseline-less
// first tick degrade to idle classification rather than faulting.
func (s *Sampler) OnTick() {
	times, err := cpu.Times(true)
	if err != nil || len(times) < s.numCPUs {
		if err != nil {
			s.log.Warn().Err(err).Msg("Host CPU sampling failed, accounting ticks as idle")
		}
		s.replayAll(func(int) (bool, bool) { return true, false })
		return
	}

	if !s.havePrev {
		s.prev = times
		s.havePrev = true
		s.replayAll(func(int) (bool, bool) { return true, false })
		return
	}

	s.replayAll(func(i int) (bool, bool) {
		return classifyDelta(s.prev[i], times[i])
	})
	s.prev = times
}

// replayAll runs the classifier once per CPU with the probe state set by
// classify.
func (s *Sampler) replayAll(classify func(cpu int) (idle, kernel bool)) {
	for i := 0; i < s.numCPUs; i++ {
		s.curCPU = i
		s.curIdle, s.curKernel = classify(i)
		s.classifier.Tick()
	}
}

// classifyDelta decides what one CPU predominantly did between two host
// samples. Idle (plus iowait) wins ties against busy time so a quiet
// machine accounts as idle; within busy time, kernel-side categories win
// ties against user time.
func classifyDelta(prev, cur cpu.TimesStat) (idle, kernel bool) {
	user := (cur.User + cur.Nice) - (prev.User + prev.Nice)
	system := (cur.System + cur.Irq + cur.Softirq + cur.Steal) - (prev.System + prev.Irq + prev.Softirq + prev.Steal)
	idleTime := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)

	if idleTime >= user && idleTime >= system {
		return true, false
	}
	return false, system >= user
}

// ProcsRunning implements the stat renderer's SchedInfo collaborator via
// the host's runnable-process count. Zero on failure.
func (s *Sampler) ProcsRunning() int {
	misc, err := load.Misc()
	if err != nil {
		return 0
	}
	return misc.ProcsRunning
}

// BootTime implements the stat renderer's BootClock collaborator.
func (s *Sampler) BootTime() (time.Time, bool) {
	secs, err := host.BootTime()
	if err != nil || secs == 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(secs), 0), true
}
