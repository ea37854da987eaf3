// Package oatable implements the open-address, linear-probing hash table
// described in spec.md §4.1, grounded on the original
// common/open_address_hash_table.h. It is a power-of-two-sized array of
// (is_free, key, payload) entries; it never resizes, so callers must size it
// so the load factor stays below 0.7 (spec.md §4.1, §7 "TT full").
package oatable

// entry is one slot of the table.
type entry[V any] struct {
	free bool
	key  uint64
	data V
}

// Table is a fixed-capacity open-address hash table parameterised on a
// payload type V.
type Table[V any] struct {
	mask  uint64
	size  uint64
	count uint64
	slots []entry[V]
}

// New creates a table with 1<<bits entries.
func New[V any](bits int) *Table[V] {
	size := uint64(1) << uint(bits)
	t := &Table[V]{
		mask: size - 1,
		size: size,
	}
	t.slots = make([]entry[V], size)
	for i := range t.slots {
		t.slots[i].free = true
	}
	return t
}

// Clear empties every slot; count returns to zero.
func (t *Table[V]) Clear() {
	t.count = 0
	for i := range t.slots {
		t.slots[i] = entry[V]{free: true}
	}
}

// Lookup returns the index of the entry whose stored key equals key, and
// true, or (0, false) on reaching a free slot (not-found).
func (t *Table[V]) Lookup(key uint64) (uint64, bool) {
	index := key & t.mask
	for {
		e := &t.slots[index]
		if e.free {
			return 0, false
		}
		if e.key == key {
			return index, true
		}
		index = (index + 1) & t.mask
	}
}

// Store inserts at the first free slot on the probe sequence for key.
// Duplicates are not deduplicated; that is the caller's responsibility.
func (t *Table[V]) Store(key uint64, data V) uint64 {
	index := key & t.mask
	for {
		e := &t.slots[index]
		if e.free {
			e.free = false
			e.key = key
			e.data = data
			t.count++
			return index
		}
		index = (index + 1) & t.mask
	}
}

// At returns the payload stored at index (as returned by Lookup/Store).
func (t *Table[V]) At(index uint64) *V {
	return &t.slots[index].data
}

// Size returns the fixed entry capacity (1<<bits).
func (t *Table[V]) Size() uint64 { return t.size }

// Count returns the number of occupied entries.
func (t *Table[V]) Count() uint64 { return t.count }

// IsFull reports whether count has reached capacity.
func (t *Table[V]) IsFull() bool { return t.count >= t.size }

// LoadFactor reports count/size, which callers should keep below 0.7.
func (t *Table[V]) LoadFactor() float64 { return float64(t.count) / float64(t.size) }
