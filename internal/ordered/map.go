// Package ordered provides an immutable, insertion-ordered map used for every
// declaration-order listing the engine produces.
package ordered

import "iter"

// Map is a read-only mapping that remembers insertion order.
// The zero value is an empty map. Build one with a Builder.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int {
	return len(m.keys)
}

// Get returns the value stored under k.
func (m Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Has reports whether k is present.
func (m Map[K, V]) Has(k K) bool {
	_, ok := m.values[k]
	return ok
}

// Keys returns the keys in insertion order.
func (m Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// At returns the i-th entry in insertion order.
func (m Map[K, V]) At(i int) (K, V) {
	k := m.keys[i]
	return k, m.values[k]
}

// All iterates entries in insertion order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Builder accumulates entries for a Map. It is not safe for concurrent use.
type Builder[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewBuilder returns a Builder with room for n entries.
func NewBuilder[K comparable, V any](n int) *Builder[K, V] {
	return &Builder[K, V]{
		keys:   make([]K, 0, n),
		values: make(map[K]V, n),
	}
}

// Set stores v under k. An existing key keeps its position.
func (b *Builder[K, V]) Set(k K, v V) {
	if _, ok := b.values[k]; !ok {
		b.keys = append(b.keys, k)
	}
	b.values[k] = v
}

// Append stores v under k at the end, moving k if it was already present.
func (b *Builder[K, V]) Append(k K, v V) {
	if _, ok := b.values[k]; ok {
		b.remove(k)
	}
	b.keys = append(b.keys, k)
	b.values[k] = v
}

func (b *Builder[K, V]) remove(k K) {
	for i, existing := range b.keys {
		if existing == k {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
	delete(b.values, k)
}

// Map returns an immutable snapshot of the entries added so far.
func (b *Builder[K, V]) Map() Map[K, V] {
	m := Map[K, V]{
		keys:   make([]K, len(b.keys)),
		values: make(map[K]V, len(b.values)),
	}
	copy(m.keys, b.keys)
	for k, v := range b.values {
		m.values[k] = v
	}
	return m
}
