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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	keys := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("life"),
		[]byte("a somewhat longer key with spaces"),
		{0x00, 0xff, 0x80, 0x7f},
	}
	for _, k := range keys {
		h := hashKey(k)
		for i := 0; i < 10; i++ {
			require.Equal(t, h, hashKey(k))
		}
		// The derived bucket index is equally stable for a fixed capacity.
		for _, capacity := range []uint32{2, 8, 1024} {
			idx := h % capacity
			require.Equal(t, idx, hashKey(k)%capacity)
			require.Less(t, idx, capacity)
		}
	}
}

func TestCrcTableReference(t *testing.T) {
	// Spot-check the generated table against the reference constants of
	// the reversed Castagnoli polynomial.
	require.Equal(t, uint32(0x00000000), crcTable[0])
	require.Equal(t, uint32(0xF26B8303), crcTable[1])
	require.Equal(t, uint32(0xE13B70F7), crcTable[2])
	require.Equal(t, uint32(0x82F63B78), crcTable[128])
	require.Equal(t, uint32(0xAD7D5351), crcTable[255])
}

func TestHashSpreadsSingleBytes(t *testing.T) {
	// Single-byte keys stress the weak low bits of raw CRC32; after
	// mixing they should land nearly collision-free and cover every
	// bucket of a small table.
	digests := make(map[uint32]struct{})
	buckets := make(map[uint32]struct{})
	for i := 0; i < 256; i++ {
		h := hashKey([]byte{byte(i)})
		digests[h] = struct{}{}
		buckets[h%8] = struct{}{}
	}
	require.GreaterOrEqual(t, len(digests), 250)
	require.Equal(t, 8, len(buckets))
}

func TestHashAvalanche(t *testing.T) {
	base := []byte("key-000")
	h := hashKey(base)
	for i := range base {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), base...)
			mutated[i] ^= 1 << bit
			require.NotEqual(t, h, hashKey(mutated),
				fmt.Sprintf("flipping byte %d bit %d did not change the digest", i, bit))
		}
	}
}
