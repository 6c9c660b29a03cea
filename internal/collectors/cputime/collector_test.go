package cputime

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cpustat_exporter/internal/kernel/cpustat"
)

type fakeForks uint64

func (f fakeForks) TotalForks() uint64 { return uint64(f) }

type fakeSched int

func (f fakeSched) ProcsRunning() int { return int(f) }

func TestCollectorGlobalSeries(t *testing.T) {
	m := cpustat.NewManager(2)
	m.IncIdle(0, 100)  // 1s at 100hz
	m.IncSystem(1, 50) // 0.5s

	c := NewCollector(m, fakeForks(4), fakeSched(2), 100, false)

	expected := `
# HELP cpustat_seconds_total Seconds all CPUs together spent in each accounting mode.
# TYPE cpustat_seconds_total counter
cpustat_seconds_total{mode="guest"} 0
cpustat_seconds_total{mode="guest_nice"} 0
cpustat_seconds_total{mode="idle"} 1
cpustat_seconds_total{mode="iowait"} 0
cpustat_seconds_total{mode="irq"} 0
cpustat_seconds_total{mode="nice"} 0
cpustat_seconds_total{mode="softirq"} 0
cpustat_seconds_total{mode="steal"} 0
cpustat_seconds_total{mode="system"} 0.5
cpustat_seconds_total{mode="user"} 0
# HELP cpustat_forks_total Total number of processes ever created.
# TYPE cpustat_forks_total counter
cpustat_forks_total 4
# HELP cpustat_procs_running Number of processes currently in a runnable state.
# TYPE cpustat_procs_running gauge
cpustat_procs_running 2
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"cpustat_seconds_total", "cpustat_forks_total", "cpustat_procs_running"); err != nil {
		t.Errorf("unexpected collecting result:\n%v", err)
	}
}

func TestCollectorPerCPUSeries(t *testing.T) {
	m := cpustat.NewManager(2)
	m.IncUser(0, 200) // 2s at 100hz
	m.IncIdle(1, 300) // 3s

	c := NewCollector(m, fakeForks(0), fakeSched(0), 100, true)

	expected := `
# HELP cpustat_cpu_seconds_total Seconds each CPU spent in each accounting mode.
# TYPE cpustat_cpu_seconds_total counter
cpustat_cpu_seconds_total{cpu="0",mode="guest"} 0
cpustat_cpu_seconds_total{cpu="0",mode="guest_nice"} 0
cpustat_cpu_seconds_total{cpu="0",mode="idle"} 0
cpustat_cpu_seconds_total{cpu="0",mode="iowait"} 0
cpustat_cpu_seconds_total{cpu="0",mode="irq"} 0
cpustat_cpu_seconds_total{cpu="0",mode="nice"} 0
cpustat_cpu_seconds_total{cpu="0",mode="softirq"} 0
cpustat_cpu_seconds_total{cpu="0",mode="steal"} 0
cpustat_cpu_seconds_total{cpu="0",mode="system"} 0
cpustat_cpu_seconds_total{cpu="0",mode="user"} 2
cpustat_cpu_seconds_total{cpu="1",mode="guest"} 0
cpustat_cpu_seconds_total{cpu="1",mode="guest_nice"} 0
cpustat_cpu_seconds_total{cpu="1",mode="idle"} 3
cpustat_cpu_seconds_total{cpu="1",mode="iowait"} 0
cpustat_cpu_seconds_total{cpu="1",mode="irq"} 0
cpustat_cpu_seconds_total{cpu="1",mode="nice"} 0
cpustat_cpu_seconds_total{cpu="1",mode="softirq"} 0
cpustat_cpu_seconds_total{cpu="1",mode="steal"} 0
cpustat_cpu_seconds_total{cpu="1",mode="system"} 0
cpustat_cpu_seconds_total{cpu="1",mode="user"} 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"cpustat_cpu_seconds_total"); err != nil {
		t.Errorf("unexpected collecting result:\n%v", err)
	}
}

func TestCollectorPerCPUDisabled(t *testing.T) {
	m := cpustat.NewManager(2)
	m.IncUser(0, 100)

	c := NewCollector(m, fakeForks(0), fakeSched(0), 100, false)

	if n := testutil.CollectAndCount(c, "cpustat_cpu_seconds_total"); n != 0 {
		t.Errorf("per-CPU series exported while disabled: %d samples", n)
	}
	if n := testutil.CollectAndCount(c, "cpustat_seconds_total"); n != len(modes) {
		t.Errorf("aggregate series count = %d, want %d", n, len(modes))
	}
}
