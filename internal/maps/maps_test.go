package maps

import (
	"sync"
	"testing"
)

// implementations lists every backing store; each must satisfy the same
// contract.
func implementations() map[string]func() ConcurrentMap[int32, string] {
	return map[string]func() ConcurrentMap[int32, string]{
		"xsync":   NewXSyncMap[int32, string],
		"cornelk": NewCornelkMap[int32, string],
		"mutex":   NewMutexMap[int32, string],
	}
}

func TestMapContract(t *testing.T) {
	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			m := newMap()

			if _, ok := m.Load(1); ok {
				t.Error("Load on empty map reported ok")
			}
			if m.Len() != 0 {
				t.Errorf("empty map Len = %d", m.Len())
			}

			m.Store(1, "a")
			m.Store(2, "b")
			m.Store(1, "c") // overwrite

			if v, ok := m.Load(1); !ok || v != "c" {
				t.Errorf("Load(1) = %q, %v; want \"c\", true", v, ok)
			}
			if m.Len() != 2 {
				t.Errorf("Len = %d, want 2", m.Len())
			}

			if v, ok := m.LoadAndDelete(2); !ok || v != "b" {
				t.Errorf("LoadAndDelete(2) = %q, %v; want \"b\", true", v, ok)
			}
			if _, ok := m.Load(2); ok {
				t.Error("key 2 still present after LoadAndDelete")
			}
			if _, ok := m.LoadAndDelete(2); ok {
				t.Error("second LoadAndDelete reported ok")
			}

			m.Delete(1)
			if m.Len() != 0 {
				t.Errorf("Len after deletes = %d, want 0", m.Len())
			}
		})
	}
}

func TestMapRange(t *testing.T) {
	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			want := map[int32]string{10: "x", 20: "y", 30: "z"}
			for k, v := range want {
				m.Store(k, v)
			}

			got := map[int32]string{}
			m.Range(func(k int32, v string) bool {
				got[k] = v
				return true
			})
			if len(got) != len(want) {
				t.Fatalf("Range visited %d entries, want %d", len(got), len(want))
			}
			for k, v := range want {
				if got[k] != v {
					t.Errorf("Range saw %d=%q, want %q", k, got[k], v)
				}
			}

			// Early termination.
			visited := 0
			m.Range(func(k int32, v string) bool {
				visited++
				return false
			})
			if visited != 1 {
				t.Errorf("Range after false visited %d entries, want 1", visited)
			}
		})
	}
}

func TestMapConcurrentAccess(t *testing.T) {
	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			const (
				writers = 8
				keys    = 256
			)
			var wg sync.WaitGroup
			for w := 0; w < writers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for k := int32(0); k < keys; k++ {
						m.Store(k, "v")
						m.Load(k)
					}
				}(w)
			}
			wg.Wait()

			if m.Len() != keys {
				t.Errorf("Len = %d, want %d", m.Len(), keys)
			}
		})
	}
}
