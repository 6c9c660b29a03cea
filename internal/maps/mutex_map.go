package maps

import "sync"

// MutexMap is a plain RWMutex-guarded map. It is the correctness baseline
// the lock-free implementations are benchmarked against.
type MutexMap[K Key, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewMutexMap creates a mutex-backed map.
func NewMutexMap[K Key, V any]() ConcurrentMap[K, V] {
	return &MutexMap[K, V]{m: make(map[K]V)}
}

func (m *MutexMap[K, V]) Load(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.m[key]
	return val, ok
}

func (m *MutexMap[K, V]) Store(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
}

func (m *MutexMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
}

func (m *MutexMap[K, V]) LoadAndDelete(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.m[key]
	if ok {
		delete(m.m, key)
	}
	return val, ok
}

func (m *MutexMap[K, V]) Range(f func(key K, value V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.m {
		if !f(k, v) {
			return
		}
	}
}

func (m *MutexMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
