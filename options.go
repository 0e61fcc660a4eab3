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

package bytemap

// Option provides an interface to do work on a Map while it is being
// created.
type Option[V any] interface {
	apply(m *Map[V])
}

type hashOption[V any] struct {
	hash func(key []byte) uint32
}

func (op hashOption[V]) apply(m *Map[V]) {
	m.hash = op.hash
}

// WithHash is an option to replace the default CRC-32C hash function of a
// Map[V]. The replacement must be a pure function of the key bytes.
func WithHash[V any](hash func(key []byte) uint32) Option[V] {
	return hashOption[V]{hash}
}

// Allocator specifies an interface for allocating and releasing the slot
// array backing a Map. The default allocator uses Go's builtin make and
// lets the GC reclaim memory.
//
// If the allocator manually manages memory, Map.Close or Map.CloseWith must
// be called to ensure Free is invoked for the final slot array.
type Allocator[V any] interface {
	// Alloc returns a zeroed slice equivalent to make([]Slot[V], n), or an
	// error if backing memory cannot be obtained.
	Alloc(n int) ([]Slot[V], error)

	// Free releases the memory of a slice previously returned by Alloc.
	Free(slots []Slot[V])
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) Alloc(n int) ([]Slot[V], error) {
	return make([]Slot[V], n), nil
}

func (defaultAllocator[V]) Free(slots []Slot[V]) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(m *Map[V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option to specify the Allocator to use for a Map[V].
func WithAllocator[V any](allocator Allocator[V]) Option[V] {
	return allocatorOption[V]{allocator}
}
