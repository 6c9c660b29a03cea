package procfs

import (
	"cpustat_exporter/internal/kernel/proctable"
)

// EnvironProducer renders one process's environment in the procfs byte
// layout: each "KEY=VALUE" string terminated by a single NUL, with no
// other separators and no trailing bytes beyond the last NUL.
type EnvironProducer struct {
	table *proctable.Table
	pid   int32
}

// NewEnvironProducer binds the environ file to one pid in the table.
func NewEnvironProducer(table *proctable.Table, pid int32) *EnvironProducer {
	return &EnvironProducer{table: table, pid: pid}
}

// Data renders the environ bytes. An unknown pid yields ErrUnknownPID.
func (p *EnvironProducer) Data() ([]byte, error) {
	proc, ok := p.table.Lookup(p.pid)
	if !ok {
		return nil, ErrUnknownPID
	}
	var out []byte
	for _, kv := range proc.Environ {
		out = append(out, kv...)
		out = append(out, 0)
	}
	return out, nil
}
