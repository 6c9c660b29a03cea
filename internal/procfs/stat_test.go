package procfs

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"cpustat_exporter/internal/kernel/cpustat"
	"cpustat_exporter/internal/kernel/proctable"
)

type fakeSched struct{ running int }

func (f fakeSched) ProcsRunning() int { return f.running }

type fakeBoot struct {
	at time.Time
	ok bool
}

func (f fakeBoot) BootTime() (time.Time, bool) { return f.at, f.ok }

func newTestManager(t *testing.T) *cpustat.Manager {
	t.Helper()
	m := cpustat.NewManager(2)
	// The canonical scenario: 100 idle ticks on cpu0, 50 system on cpu1.
	m.IncIdle(0, 100)
	m.IncSystem(1, 50)
	return m
}

func TestStatProducerLayout(t *testing.T) {
	m := newTestManager(t)
	tbl := proctable.NewTable()
	tbl.Register(1, "init", nil)
	tbl.Register(2, "daemon", nil)

	p := NewStatProducer(m, tbl, fakeSched{running: 3}, fakeBoot{at: time.Unix(1700000000, 0), ok: true})
	data, err := p.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}

	want := strings.Join([]string{
		"cpu 0 0 50 100 0 0 0 0 0 0",
		"cpu0 0 0 0 100 0 0 0 0 0 0",
		"cpu1 0 0 50 0 0 0 0 0 0 0",
		"intr 0",
		"ctxt 0",
		"btime 1700000000",
		"processes 2",
		"procs_running 3",
		"procs_blocked 0",
		"softirq 0 0 0 0 0 0 0 0 0 0 0",
		"",
	}, "\n")
	if string(data) != want {
		t.Errorf("stat output mismatch:\ngot:\n%s\nwant:\n%s", data, want)
	}
}

func TestStatProducerBtimeFallback(t *testing.T) {
	m := cpustat.NewManager(1)
	tbl := proctable.NewTable()

	tests := []struct {
		name string
		boot BootClock
	}{
		{name: "nil boot clock", boot: nil},
		{name: "unset boot time", boot: fakeBoot{ok: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewStatProducer(m, tbl, fakeSched{}, tt.boot)
			data, err := p.Data()
			if err != nil {
				t.Fatalf("Data: %v", err)
			}
			if !strings.Contains(string(data), "\nbtime 0\n") {
				t.Errorf("missing literal btime 0 line in:\n%s", data)
			}
		})
	}
}

// TestStatProducerSummaryMatchesPerCPUSum checks the category-by-category
// relation between the summary line and the cpuN lines on quiescent
// counters (with writers stopped there is no sampling skew).
func TestStatProducerSummaryMatchesPerCPUSum(t *testing.T) {
	m := cpustat.NewManager(3)
	m.IncUser(0, 7)
	m.IncUser(2, 5)
	m.IncSystem(1, 11)
	m.IncIdle(0, 2)
	m.IncIdle(1, 3)
	m.IncIdle(2, 4)

	p := NewStatProducer(m, proctable.NewTable(), fakeSched{}, nil)
	data, err := p.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	parse := func(line string) []uint64 {
		fields := strings.Fields(line)[1:]
		if len(fields) != 10 {
			t.Fatalf("line %q has %d fields, want 10", line, len(fields))
		}
		vals := make([]uint64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				t.Fatalf("line %q field %d: %v", line, i, err)
			}
			vals[i] = v
		}
		return vals
	}

	summary := parse(lines[0])
	var sums [10]uint64
	for cpu := 0; cpu < 3; cpu++ {
		if !strings.HasPrefix(lines[1+cpu], "cpu"+strconv.Itoa(cpu)+" ") {
			t.Fatalf("line %d = %q, want a cpu%d line", 1+cpu, lines[1+cpu], cpu)
		}
		for i, v := range parse(lines[1+cpu]) {
			sums[i] += v
		}
	}
	for i := range sums {
		if summary[i] != sums[i] {
			t.Errorf("summary field %d = %d, per-cpu sum = %d", i, summary[i], sums[i])
		}
	}
}
