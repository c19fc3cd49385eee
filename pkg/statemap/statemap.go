// Package statemap provides a concurrent key-value map for workloads that
// accumulate state across workers. Every mutation replaces the whole entry
// for a key; partial in-place mutation of a stored value is never exposed.
// Read-modify-write sequences go through Update, which serializes them
// behind the map's lock so no update is lost.
package statemap

import "sync"

// Map is a concurrent map with whole-entry-replace semantics.
type Map[K comparable, V any] struct {
	mx      sync.RWMutex
	entries map[K]V
}

// New creates an empty map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{entries: make(map[K]V)}
}

// Load returns the value stored for the key and whether it was present.
func (m *Map[K, V]) Load(key K) (V, bool) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

// Store replaces the whole entry for the key.
func (m *Map[K, V]) Store(key K, value V) {
	m.mx.Lock()
	m.entries[key] = value
	m.mx.Unlock()
}

// Update replaces the entry for the key with fn(old, present), holding the
// lock across the read and the write. Concurrent Updates on the same key
// therefore never lose each other's effect. fn must not block.
func (m *Map[K, V]) Update(key K, fn func(old V, present bool) V) {
	m.mx.Lock()
	old, present := m.entries[key]
	m.entries[key] = fn(old, present)
	m.mx.Unlock()
}

// Delete removes the entry for the key.
func (m *Map[K, V]) Delete(key K) {
	m.mx.Lock()
	delete(m.entries, key)
	m.mx.Unlock()
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return len(m.entries)
}

// Snapshot returns a copy of the current contents.
func (m *Map[K, V]) Snapshot() map[K]V {
	m.mx.RLock()
	defer m.mx.RUnlock()
	snapshot := make(map[K]V, len(m.entries))
	for k, v := range m.entries {
		snapshot[k] = v
	}
	return snapshot
}
