// Package proctable tracks registered processes and their environment.
// It backs the per-process environ file and supplies the total-forks
// counter the stat renderer reports.
package proctable

import (
	"sync/atomic"

	"cpustat_exporter/internal/maps"
)

// Process is the registry entry for one pid. Environ holds "KEY=VALUE"
// strings in registration order; the slice is owned by the table and must
// not be mutated after Register.
type Process struct {
	PID     int32
	Name    string
	Environ []string
}

// Table is a concurrent pid-keyed process registry. Registrations bump a
// fork counter that only ever grows, matching how a kernel counts forks:
// unregistering a process never decrements it.
type Table struct {
	procs maps.ConcurrentMap[int32, *Process]
	forks atomic.Uint64
}

// NewTable creates an empty process table.
func NewTable() *Table {
	return &Table{procs: maps.New[int32, *Process]()}
}

// Register records a process and counts it as a fork. Re-registering an
// existing pid replaces the entry (the pid was recycled) and still counts.
func (t *Table) Register(pid int32, name string, environ []string) {
	t.procs.Store(pid, &Process{PID: pid, Name: name, Environ: environ})
	t.forks.Add(1)
}

// Unregister drops a pid from the table. Unknown pids are ignored.
func (t *Table) Unregister(pid int32) {
	t.procs.Delete(pid)
}

// Lookup returns the registry entry for a pid.
func (t *Table) Lookup(pid int32) (*Process, bool) {
	return t.procs.Load(pid)
}

// TotalForks returns how many processes have ever been registered.
func (t *Table) TotalForks() uint64 {
	return t.forks.Load()
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.procs.Len()
}
