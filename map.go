// Copyright 2025 The Bytemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bytemap implements an open-addressing hash map keyed by byte
// strings.
//
// The map stores entries directly in a flat, power-of-two sized array of
// slots and resolves collisions with linear probing. Probing is bounded: a
// lookup or insertion scans at most maxChainLength consecutive slots
// (wrapping at the end of the array) before giving up. When an insertion
// cannot find a usable slot within that window the table doubles its
// capacity and rehashes every entry, so a probe never degrades beyond a
// small constant number of slot comparisons. The bound is deliberate: an
// insertion can trigger growth even while free slots exist elsewhere in the
// table, trading a little memory for a hard cap on worst-case scan cost.
//
// Keys are []byte slices compared byte-for-byte. The map stores the slices
// it is given; it never copies or releases key bytes, and the caller must
// keep a key's backing memory valid for as long as the entry remains in the
// map. Values are held by a type parameter and are likewise only stored and
// returned, never inspected.
//
// Backing memory for the slot array comes from an Allocator (see
// options.go). The default allocator is Go's make and needs no teardown;
// maps using a manually managed allocator must be released with Close or
// CloseWith.
//
// A Map is NOT goroutine-safe. Callers sharing a map across goroutines must
// serialize all access externally.
package bytemap

import (
	"bytes"
	"fmt"
)

const (
	debug      = false
	invariants = false

	// maxChainLength bounds the number of slots a probe sequence examines.
	maxChainLength = 8

	// maxCapacity is the largest capacity a table may double to. Growth
	// beyond it reports ErrAllocFailed.
	maxCapacity = 1 << 30
)

// Action is a visitor's verdict on the slot it was handed. It is an
// explicit tagged result rather than a bare integer so that the
// remove/early-exit contract is type-checked.
type Action uint8

const (
	// Continue moves iteration to the next occupied slot.
	Continue Action = iota
	// Remove clears the visited slot and decrements the entry count before
	// continuing. The entry's key and value memory is untouched; freeing it
	// is the visitor's business.
	Remove
	// Stop halts iteration immediately. The caller of Apply or CloseWith
	// observes the early exit as ErrStopped.
	Stop
)

// Visitor is the callback contract for Apply and CloseWith. It is invoked
// once per occupied slot in ascending bucket-index order.
type Visitor[V any] func(s *Slot[V]) Action

// Slot holds a key and value. An unoccupied slot has zeroed fields.
type Slot[V any] struct {
	used  bool
	key   []byte
	value V
}

// Key returns the stored key bytes. The slice is the one the caller passed
// to Put, not a copy.
func (s *Slot[V]) Key() []byte { return s.key }

// Value returns the stored value.
func (s *Slot[V]) Value() V { return s.value }

// Map is an unordered map from byte-string keys to values of type V with
// Put, Get, Delete, and Apply operations. See the package documentation for
// the probing and ownership rules.
type Map[V any] struct {
	// The hash function applied to keys. Defaults to the CRC-32C digest
	// with avalanche mixing in hash.go; overridable with WithHash.
	hash func(key []byte) uint32
	// The allocator providing the slot array.
	allocator Allocator[V]
	// slots is capacity in length.
	slots []Slot[V]
	// The total number of slots. Always a nonzero power of two while the
	// map is open, which keeps index reduction and doubling exact.
	capacity int
	// The number of occupied slots.
	used int
}

// New constructs a Map with the specified initial capacity, which must be a
// nonzero power of two. The capacity is fixed until an insertion fails to
// find a slot within its probe window, at which point the table doubles.
func New[V any](initialCapacity int, options ...Option[V]) (*Map[V], error) {
	if initialCapacity <= 0 || initialCapacity&(initialCapacity-1) != 0 {
		return nil, ErrInvalidCapacity
	}

	m := &Map[V]{
		hash:      hashKey,
		allocator: defaultAllocator[V]{},
		capacity:  initialCapacity,
	}
	for _, op := range options {
		op.apply(m)
	}

	slots, err := m.allocator.Alloc(initialCapacity)
	if err != nil {
		return nil, ErrAllocFailed
	}
	m.slots = slots
	m.checkInvariants()
	return m, nil
}

// Close releases the backing slot array to the allocator. It does not touch
// key or value memory. The map must not be used afterward, though Close
// itself is idempotent.
func (m *Map[V]) Close() {
	if m.slots != nil {
		m.allocator.Free(m.slots)
		m.slots = nil
		m.capacity = 0
		m.used = 0
	}
}

// CloseWith runs visitor over every occupied slot and then releases the
// backing array. It is the teardown path for maps whose values the caller
// wants released or logged entry by entry; the visitor is expected to
// return Remove after disposing of each value. The array is released even
// if the visitor stops early, in which case CloseWith returns ErrStopped.
func (m *Map[V]) CloseWith(visitor Visitor[V]) error {
	err := m.Apply(visitor)
	m.Close()
	return err
}

// Put inserts an entry into the map, overwriting the value if an entry with
// an equal key already exists. On overwrite the stored key reference is
// refreshed to the newly supplied slice. Put grows the table as many times
// as placement requires and fails only if growth cannot allocate.
func (m *Map[V]) Put(key []byte, value V) error {
	for {
		i, ok := m.findSlot(key)
		if ok {
			s := &m.slots[i]
			s.key = key
			s.value = value
			if !s.used {
				s.used = true
				m.used++
			}
			m.checkInvariants()
			return nil
		}
		if err := m.grow(); err != nil {
			return err
		}
	}
}

// Get retrieves the value stored for key, or ErrNotFound if no equal key is
// present. Get has no side effects.
func (m *Map[V]) Get(key []byte) (V, error) {
	if i, ok := m.lookup(key); ok {
		return m.slots[i].value, nil
	}
	var zero V
	return zero, ErrNotFound
}

// Delete removes the entry for key, zeroing its slot, or returns
// ErrNotFound if no equal key is present. The value is only detached from
// the map, never released.
func (m *Map[V]) Delete(key []byte) error {
	i, ok := m.lookup(key)
	if !ok {
		return ErrNotFound
	}
	m.slots[i] = Slot[V]{}
	m.used--
	m.checkInvariants()
	return nil
}

// Apply invokes visitor for every occupied slot in ascending bucket-index
// order. Bucket order is not insertion order and is not stable across
// growth. The visitor's Action decides whether iteration continues, the
// slot is cleared, or the traversal halts; a halted traversal surfaces as
// ErrStopped.
func (m *Map[V]) Apply(visitor Visitor[V]) error {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.used {
			continue
		}
		switch visitor(s) {
		case Continue:
		case Remove:
			*s = Slot[V]{}
			m.used--
		default:
			return ErrStopped
		}
	}
	m.checkInvariants()
	return nil
}

// Len returns the number of entries in the map.
func (m *Map[V]) Len() int {
	return m.used
}

// Cap returns the current slot-array capacity.
func (m *Map[V]) Cap() int {
	return m.capacity
}

// lookup scans the probe window for an occupied slot holding key,
// returning its index. Used by Get and Delete, which must find existing
// entries even when the table is full.
func (m *Map[V]) lookup(key []byte) (int, bool) {
	i := int(m.hash(key) % uint32(m.capacity))
	for n := 0; n < maxChainLength; n++ {
		s := &m.slots[i]
		if s.used && bytes.Equal(s.key, key) {
			return i, true
		}
		i = (i + 1) % m.capacity
	}
	return 0, false
}

// findSlot locates the slot Put should write key into: the slot already
// holding an equal key, or failing that the first unoccupied slot in the
// probe window. ok=false means the window offered neither and the table
// needs to grow; a window of fully occupied slots reports this even if
// free slots exist beyond it.
func (m *Map[V]) findSlot(key []byte) (index int, ok bool) {
	// A full table can't accept an insertion, and scanning it for a free
	// slot would be wasted work.
	if m.used >= m.capacity {
		return 0, false
	}

	start := int(m.hash(key) % uint32(m.capacity))

	// First pass: look for an equal key, counting how much of the window
	// is occupied.
	occupied := 0
	i := start
	for n := 0; n < maxChainLength; n++ {
		s := &m.slots[i]
		if s.used {
			occupied++
			if bytes.Equal(s.key, key) {
				return i, true
			}
		}
		i = (i + 1) % m.capacity
	}

	// Second pass: the key isn't present, so take the first unoccupied
	// slot in the same window, if the first pass saw one.
	if occupied < maxChainLength {
		i = start
		for n := 0; n < maxChainLength; n++ {
			if !m.slots[i].used {
				return i, true
			}
			i = (i + 1) % m.capacity
		}
	}

	return 0, false
}

// grow doubles the table's capacity and rehashes every entry into a new
// slot array. Entries are moved by reference; key and value memory is
// never copied. If any allocation fails the map is left exactly as it was
// and grow returns ErrAllocFailed: the new array becomes visible only
// after every entry has been placed in it.
func (m *Map[V]) grow() error {
	if m.capacity >= maxCapacity {
		return ErrAllocFailed
	}

	next := &Map[V]{
		hash:      m.hash,
		allocator: m.allocator,
		capacity:  2 * m.capacity,
	}
	slots, err := m.allocator.Alloc(next.capacity)
	if err != nil {
		return ErrAllocFailed
	}
	next.slots = slots

	if debug {
		fmt.Printf("grow: capacity=%d->%d used=%d\n", m.capacity, next.capacity, m.used)
	}

	// Re-insert every entry into the new table. The visitor leaves the old
	// slots in place so that a nested growth failure aborts with the old
	// table intact; the swap below retires the old array wholesale.
	err = m.Apply(func(s *Slot[V]) Action {
		if next.Put(s.key, s.value) != nil {
			return Stop
		}
		return Continue
	})
	if err != nil {
		next.Close()
		return ErrAllocFailed
	}

	m.allocator.Free(m.slots)
	m.slots = next.slots
	m.capacity = next.capacity
	m.checkInvariants()
	return nil
}

func (m *Map[V]) checkInvariants() {
	if invariants {
		if m.slots != nil {
			if m.capacity <= 0 || m.capacity&(m.capacity-1) != 0 {
				panic(fmt.Sprintf("invariant failed: capacity %d is not a nonzero power of two", m.capacity))
			}
			if m.capacity != len(m.slots) {
				panic(fmt.Sprintf("invariant failed: capacity %d != len(slots) %d", m.capacity, len(m.slots)))
			}
		}

		var used int
		for i := range m.slots {
			if m.slots[i].used {
				used++
			}
		}
		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d used slots, but used count is %d", used, m.used))
		}
		if m.used > m.capacity {
			panic(fmt.Sprintf("invariant failed: used %d exceeds capacity %d", m.used, m.capacity))
		}
	}
}
