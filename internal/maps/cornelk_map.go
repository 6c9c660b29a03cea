package maps

import "github.com/cornelk/hashmap"

// CornelkMap backs the ConcurrentMap interface with cornelk/hashmap.
type CornelkMap[K Key, V any] struct {
	m *hashmap.Map[K, V]
}

// NewCornelkMap creates a cornelk-backed map.
func NewCornelkMap[K Key, V any]() ConcurrentMap[K, V] {
	return &CornelkMap[K, V]{m: hashmap.New[K, V]()}
}

func (m *CornelkMap[K, V]) Load(key K) (V, bool) {
	return m.m.Get(key)
}

func (m *CornelkMap[K, V]) Store(key K, value V) { m.m.Set(key, value) }

func (m *CornelkMap[K, V]) Delete(key K) { m.m.Del(key) }

// LoadAndDelete is a get-then-delete composition, not atomic. The registry
// only deletes a pid from one place at a time, so the race window does not
// matter for its use.
func (m *CornelkMap[K, V]) LoadAndDelete(key K) (V, bool) {
	val, ok := m.m.Get(key)
	if ok {
		m.m.Del(key)
	}
	return val, ok
}

func (m *CornelkMap[K, V]) Range(f func(key K, value V) bool) { m.m.Range(f) }

func (m *CornelkMap[K, V]) Len() int { return m.m.Len() }
