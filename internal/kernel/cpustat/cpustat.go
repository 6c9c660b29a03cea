// Package cpustat is the single source of per-CPU time accounting state.
// One Manager owns a fixed arena of per-CPU counter bundles plus a global
// bundle. The tick classifier increments counters through the Inc methods;
// readers take relaxed-consistency snapshots through GetOnCPU/GetGlobal.
// All mutation is atomic add and all observation atomic load, so no locks
// are taken anywhere, which keeps the tick path safe to run at interrupt
// cadence.
package cpustat

// Stat is a point-in-time copy of one counter bundle, in jiffies.
//
// Each field is loaded with a single atomic read, but the fields are not
// read atomically as a set: a tick landing mid-snapshot can make fields
// reflect slightly different instants. The consumers of this data are
// monitoring surfaces, not exact bookkeeping, so the skew is accepted
// rather than paying for cross-counter synchronization on the tick path.
type Stat struct {
	User      Jiffies
	Nice      Jiffies
	System    Jiffies
	Idle      Jiffies
	Iowait    Jiffies
	IRQ       Jiffies
	Softirq   Jiffies
	Steal     Jiffies
	Guest     Jiffies
	GuestNice Jiffies
}

// times is one live counter bundle. Only user, system and idle are ever
// incremented; the remaining clocks exist so snapshots and renderers carry
// the full procfs field set, and stay zero until real accounting for them
// lands (TODO: iowait needs block-layer instrumentation first).
type times struct {
	user      Clock
	nice      Clock
	system    Clock
	idle      Clock
	iowait    Clock
	irq       Clock
	softirq   Clock
	steal     Clock
	guest     Clock
	guestNice Clock
}

func (t *times) load() Stat {
	return Stat{
		User:      t.user.Jiffies(),
		Nice:      t.nice.Jiffies(),
		System:    t.system.Jiffies(),
		Idle:      t.idle.Jiffies(),
		Iowait:    t.iowait.Jiffies(),
		IRQ:       t.irq.Jiffies(),
		Softirq:   t.softirq.Jiffies(),
		Steal:     t.steal.Jiffies(),
		Guest:     t.guest.Jiffies(),
		GuestNice: t.guestNice.Jiffies(),
	}
}

// Manager owns the per-CPU counter arena and the global bundle.
//
// Create one Manager at bootstrap, after the CPU count is known and before
// the tick source starts, and hand it to every component that needs it.
// The arena length is fixed for the life of the process; CPUs are never
// added or removed. Writes to perCPU[i] only ever come from the tick
// callback classifying a tick for CPU i, while the global bundle takes
// writes from every CPU's ticks.
type Manager struct {
	perCPU []times
	global times
}

// NewManager allocates accounting state for numCPUs CPUs. A non-positive
// count falls back to a single CPU so a misconfigured bootstrap still
// yields a usable manager.
func NewManager(numCPUs int) *Manager {
	if numCPUs < 1 {
		numCPUs = 1
	}
	return &Manager{perCPU: make([]times, numCPUs)}
}

// NumCPU returns the size of the per-CPU arena.
func (m *Manager) NumCPU() int {
	return len(m.perCPU)
}

// GetOnCPU returns a snapshot of one CPU's counters. Callers enumerate
// valid ids from NumCPU; an out-of-range id yields a zero snapshot rather
// than a panic.
func (m *Manager) GetOnCPU(cpu int) Stat {
	if cpu < 0 || cpu >= len(m.perCPU) {
		return Stat{}
	}
	return m.perCPU[cpu].load()
}

// GetGlobal returns a snapshot of the global counters. The global values
// are maintained by independent atomic adds alongside the per-CPU ones, so
// they may transiently lead or lag the sum of the per-CPU snapshots.
func (m *Manager) GetGlobal() Stat {
	return m.global.load()
}

// IncUser adds n user-time ticks for the given CPU. An out-of-range id is
// dropped silently: a stale CPU id must not be able to take down the tick
// callback.
func (m *Manager) IncUser(cpu int, n uint64) {
	if cpu < 0 || cpu >= len(m.perCPU) {
		return
	}
	m.perCPU[cpu].user.Add(n)
	m.global.user.Add(n)
}

// IncSystem adds n system-time ticks for the given CPU.
func (m *Manager) IncSystem(cpu int, n uint64) {
	if cpu < 0 || cpu >= len(m.perCPU) {
		return
	}
	m.perCPU[cpu].system.Add(n)
	m.global.system.Add(n)
}

// IncIdle adds n idle-time ticks for the given CPU.
func (m *Manager) IncIdle(cpu int, n uint64) {
	if cpu < 0 || cpu >= len(m.perCPU) {
		return
	}
	m.perCPU[cpu].idle.Add(n)
	m.global.idle.Add(n)
}
