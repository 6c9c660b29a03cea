package proctable

import (
	"fmt"
	"sync"
	"testing"
)

func TestTableRegisterLookup(t *testing.T) {
	tbl := NewTable()

	if _, ok := tbl.Lookup(1); ok {
		t.Error("Lookup on empty table reported ok")
	}

	tbl.Register(42, "init", []string{"PATH=/bin", "HOME=/root"})
	p, ok := tbl.Lookup(42)
	if !ok {
		t.Fatal("registered pid not found")
	}
	if p.Name != "init" || len(p.Environ) != 2 {
		t.Errorf("entry = %+v, want name init with 2 env vars", p)
	}
	if tbl.TotalForks() != 1 {
		t.Errorf("TotalForks = %d, want 1", tbl.TotalForks())
	}
}

func TestTableForkCountNeverDecreases(t *testing.T) {
	tbl := NewTable()
	tbl.Register(1, "a", nil)
	tbl.Register(2, "b", nil)
	tbl.Unregister(1)
	tbl.Unregister(2)
	tbl.Unregister(99) // unknown pid, ignored

	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
	if tbl.TotalForks() != 2 {
		t.Errorf("TotalForks = %d after unregister, want 2", tbl.TotalForks())
	}

	// Recycled pid counts again.
	tbl.Register(1, "c", nil)
	if tbl.TotalForks() != 3 {
		t.Errorf("TotalForks = %d, want 3", tbl.TotalForks())
	}
}

func TestTableConcurrentRegistration(t *testing.T) {
	tbl := NewTable()
	const (
		workers   = 8
		perWorker = 100
	)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				pid := int32(w*perWorker + i)
				tbl.Register(pid, fmt.Sprintf("proc%d", pid), nil)
			}
		}(w)
	}
	wg.Wait()

	if got := tbl.TotalForks(); got != workers*perWorker {
		t.Errorf("TotalForks = %d, want %d", got, workers*perWorker)
	}
	if got := tbl.Len(); got != workers*perWorker {
		t.Errorf("Len = %d, want %d", got, workers*perWorker)
	}
}
