// Package cputime exports the accounting engine's counters as Prometheus
// metrics. Metrics are built as const metrics from fresh snapshots on
// every scrape, the same way the file renderers re-render on every read.
package cputime

import (
	"strconv"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"

	"cpustat_exporter/internal/kernel/cpustat"
	"cpustat_exporter/internal/logger"
)

// ForkCounter reports how many processes have ever been created.
type ForkCounter interface {
	TotalForks() uint64
}

// SchedInfo reports the current running-process count.
type SchedInfo interface {
	ProcsRunning() int
}

// modes pairs each accounting category label with its snapshot accessor,
// in procfs field order.
var modes = []struct {
	label string
	value func(cpustat.Stat) cpustat.Jiffies
}{
	{"user", func(s cpustat.Stat) cpustat.Jiffies { return s.User }},
	{"nice", func(s cpustat.Stat) cpustat.Jiffies { return s.Nice }},
	{"system", func(s cpustat.Stat) cpustat.Jiffies { return s.System }},
	{"idle", func(s cpustat.Stat) cpustat.Jiffies { return s.Idle }},
	{"iowait", func(s cpustat.Stat) cpustat.Jiffies { return s.Iowait }},
	{"irq", func(s cpustat.Stat) cpustat.Jiffies { return s.IRQ }},
	{"softirq", func(s cpustat.Stat) cpustat.Jiffies { return s.Softirq }},
	{"steal", func(s cpustat.Stat) cpustat.Jiffies { return s.Steal }},
	{"guest", func(s cpustat.Stat) cpustat.Jiffies { return s.Guest }},
	{"guest_nice", func(s cpustat.Stat) cpustat.Jiffies { return s.GuestNice }},
}

// Collector implements prometheus.Collector over the accounting manager.
type Collector struct {
	stats  *cpustat.Manager
	forks  ForkCounter
	sched  SchedInfo
	hz     int
	perCPU bool
	log    log.Logger

	globalDesc  *prometheus.Desc
	perCPUDesc  *prometheus.Desc
	forksDesc   *prometheus.Desc
	runningDesc *prometheus.Desc

	cpuStringCache map[int]string
}

// NewCollector creates the accounting collector. perCPU controls whether
// the per-CPU series are exported; the aggregate series always are.
func NewCollector(stats *cpustat.Manager, forks ForkCounter, sched SchedInfo, hz int, perCPU bool) *Collector {
	c := &Collector{
		stats:  stats,
		forks:  forks,
		sched:  sched,
		hz:     hz,
		perCPU: perCPU,
		log:    logger.NewLoggerWithContext("cputime_collector"),

		cpuStringCache: make(map[int]string, stats.NumCPU()),
	}

	// The arena size is fixed, so the label cache can be filled up front
	// and stay read-only during concurrent scrapes.
	for cpu := 0; cpu < stats.NumCPU(); cpu++ {
		c.cpuStringCache[cpu] = strconv.Itoa(cpu)
	}

	c.globalDesc = prometheus.NewDesc(
		"cpustat_seconds_total",
		"Seconds all CPUs together spent in each accounting mode.",
		[]string{"mode"}, nil)

	if perCPU {
		c.perCPUDesc = prometheus.NewDesc(
			"cpustat_cpu_seconds_total",
			"Seconds each CPU spent in each accounting mode.",
			[]string{"cpu", "mode"}, nil)
	}

	c.forksDesc = prometheus.NewDesc(
		"cpustat_forks_total",
		"Total number of processes ever created.",
		nil, nil)

	c.runningDesc = prometheus.NewDesc(
		"cpustat_procs_running",
		"Number of processes currently in a runnable state.",
		nil, nil)

	c.log.Debug().Int("cpus", stats.NumCPU()).Bool("per_cpu", perCPU).Msg("CPU time collector created")
	return c
}

// Describe implements the prometheus.Collector interface
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.globalDesc
	if c.perCPUDesc != nil {
		ch <- c.perCPUDesc
	}
	ch <- c.forksDesc
	ch <- c.runningDesc
}

// Collect implements the prometheus.Collector interface
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	global := c.stats.GetGlobal()
	for _, m := range modes {
		ch <- prometheus.MustNewConstMetric(
			c.globalDesc,
			prometheus.CounterValue,
			m.value(global).Seconds(c.hz),
			m.label,
		)
	}

	if c.perCPU {
		for cpu := 0; cpu < c.stats.NumCPU(); cpu++ {
			snap := c.stats.GetOnCPU(cpu)
			for _, m := range modes {
				ch <- prometheus.MustNewConstMetric(
					c.perCPUDesc,
					prometheus.CounterValue,
					m.value(snap).Seconds(c.hz),
					c.formatCPU(cpu),
					m.label,
				)
			}
		}
	}

	ch <- prometheus.MustNewConstMetric(c.forksDesc, prometheus.CounterValue, float64(c.forks.TotalForks()))
	ch <- prometheus.MustNewConstMetric(c.runningDesc, prometheus.GaugeValue, float64(c.sched.ProcsRunning()))
}

// formatCPU returns the cached label for a CPU id.
func (c *Collector) formatCPU(cpu int) string {
	return c.cpuStringCache[cpu]
}
