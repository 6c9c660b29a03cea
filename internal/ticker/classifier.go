package ticker

import (
	"cpustat_exporter/internal/kernel/cpustat"
)

// The classifier is deliberately ignorant of scheduler internals. It asks
// three injected capabilities about the interrupted context and touches
// exactly one counter pair per tick. All three probes must be cheap and
// non-blocking: they run inside the tick callback.

// CPUProbe reports which CPU the current tick is being accounted against.
// The returned id must stay valid for the duration of the Tick call; that
// pinning is the probe implementation's concern.
type CPUProbe interface {
	CurrentCPU() int
}

// SchedProbe reports whether the thread scheduled on the current CPU runs
// under the idle policy.
type SchedProbe interface {
	IdlePolicy() bool
}

// TrapProbe reports whether the tick interrupted kernel-mode execution.
type TrapProbe interface {
	KernelInterrupted() bool
}

// Classifier attributes each elapsed tick to exactly one accounting
// category on the current CPU.
type Classifier struct {
	stats *cpustat.Manager
	cpu   CPUProbe
	sched SchedProbe
	trap  TrapProbe
}

// NewClassifier wires a classifier to the accounting manager and its
// context probes.
func NewClassifier(stats *cpustat.Manager, cpu CPUProbe, sched SchedProbe, trap TrapProbe) *Classifier {
	return &Classifier{
		stats: stats,
		cpu:   cpu,
		sched: sched,
		trap:  trap,
	}
}

// Tick classifies one elapsed tick. The idle-policy check wins over the
// privilege level: time spent in the idle task is never billed as CPU
// usage, even when the tick interrupted kernel mode. Otherwise the tick is
// system time if kernel mode was interrupted and user time if not.
func (c *Classifier) Tick() {
	cpu := c.cpu.CurrentCPU()
	if c.sched.IdlePolicy() {
		c.stats.IncIdle(cpu, 1)
		return
	}
	if c.trap.KernelInterrupted() {
		c.stats.IncSystem(cpu, 1)
	} else {
		c.stats.IncUser(cpu, 1)
	}
}
