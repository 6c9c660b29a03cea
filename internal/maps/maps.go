// Package maps provides the concurrent map used by the process registry,
// behind a small interface so the backing implementation can be swapped
// without touching registry logic.
package maps

// mapImplementation selects the default backing store.
// Valid options: "xsync", "cornelk", "mutex".
const mapImplementation = "xsync"

// Key constrains map keys to the integer ids used across the exporter
// (pids, CPU ids). All integer types are comparable and hash cheaply.
type Key interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// ConcurrentMap is a thread-safe map keyed by integer ids. Load, Store and
// Delete are individually atomic; Range may observe a live view and makes
// no snapshot guarantee.
type ConcurrentMap[K Key, V any] interface {
	Load(key K) (V, bool)
	Store(key K, value V)
	Delete(key K)
	LoadAndDelete(key K) (V, bool)
	Range(f func(key K, value V) bool)
	Len() int
}

// New returns the default ConcurrentMap implementation.
func New[K Key, V any]() ConcurrentMap[K, V] {
	switch mapImplementation {
	case "xsync":
		return NewXSyncMap[K, V]()
	case "cornelk":
		return NewCornelkMap[K, V]()
	case "mutex":
		return NewMutexMap[K, V]()
	default:
		return NewXSyncMap[K, V]()
	}
}
