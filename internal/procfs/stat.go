package procfs

import (
	"bytes"
	"fmt"
	"time"

	"cpustat_exporter/internal/kernel/cpustat"
)

// Reference: https://man7.org/linux/man-pages/man5/proc_stat.5.html

// CPUStats is the read-only accounting surface the stat file consumes.
// *cpustat.Manager satisfies it.
type CPUStats interface {
	NumCPU() int
	GetOnCPU(cpu int) cpustat.Stat
	GetGlobal() cpustat.Stat
}

// ForkCounter reports how many processes have ever been created.
type ForkCounter interface {
	TotalForks() uint64
}

// SchedInfo reports the scheduler's current running-process count.
type SchedInfo interface {
	ProcsRunning() int
}

// BootClock reports the boot time, if one was recorded.
type BootClock interface {
	BootTime() (time.Time, bool)
}

// StatProducer renders the stat file. It is a stateless pure function of
// its collaborators; each read samples them fresh.
type StatProducer struct {
	stats CPUStats
	forks ForkCounter
	sched SchedInfo
	boot  BootClock
}

// NewStatProducer wires the stat file to its collaborators. boot may be
// nil when no boot time is recorded; the btime line then reads 0.
func NewStatProducer(stats CPUStats, forks ForkCounter, sched SchedInfo, boot BootClock) *StatProducer {
	return &StatProducer{stats: stats, forks: forks, sched: sched, boot: boot}
}

// Data renders the full stat file. Each cpuN line is a snapshot taken at
// its own instant; the summary line is sampled first and may therefore
// skew slightly against the per-CPU sum. That skew is inherent to the
// lock-free counters and accepted.
func (p *StatProducer) Data() ([]byte, error) {
	var buf bytes.Buffer

	global := p.stats.GetGlobal()
	writeCPULine(&buf, "cpu", global)

	for cpu := 0; cpu < p.stats.NumCPU(); cpu++ {
		writeCPULine(&buf, fmt.Sprintf("cpu%d", cpu), p.stats.GetOnCPU(cpu))
	}

	// Interrupt and context-switch accounting is not implemented; the
	// lines are kept so consumers see the full field set.
	buf.WriteString("intr 0\n")
	buf.WriteString("ctxt 0\n")

	var btime int64
	if p.boot != nil {
		if at, ok := p.boot.BootTime(); ok {
			btime = at.Unix()
		}
	}
	fmt.Fprintf(&buf, "btime %d\n", btime)

	fmt.Fprintf(&buf, "processes %d\n", p.forks.TotalForks())
	fmt.Fprintf(&buf, "procs_running %d\n", p.sched.ProcsRunning())
	buf.WriteString("procs_blocked 0\n")
	buf.WriteString("softirq 0 0 0 0 0 0 0 0 0 0 0\n")

	return buf.Bytes(), nil
}

// writeCPULine emits one accounting line: label then the ten counters as
// raw jiffies, space-separated, newline-terminated.
func writeCPULine(buf *bytes.Buffer, label string, s cpustat.Stat) {
	fmt.Fprintf(buf, "%s %d %d %d %d %d %d %d %d %d %d\n",
		label,
		uint64(s.User),
		uint64(s.Nice),
		uint64(s.System),
		uint64(s.Idle),
		uint64(s.Iowait),
		uint64(s.IRQ),
		uint64(s.Softirq),
		uint64(s.Steal),
		uint64(s.Guest),
		uint64(s.GuestNice))
}
