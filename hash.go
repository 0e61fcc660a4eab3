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

import "hash/crc32"

// crcTable is the 256-entry reversed Castagnoli polynomial table. The
// digest loop below runs it with a zero initial value and no final
// inversion, so the result differs from the standard CRC-32C checksum; what
// matters here is a cheap byte-wise digest, not checksum compatibility.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// hashKey returns a well-mixed 32-bit digest of key. Raw CRC32 leaves the
// low bits poorly distributed for short inputs, and the low bits are
// exactly what the modulo reduction keeps, so the CRC is passed through
// Robert Jenkins' 32-bit mix and a Knuth multiplicative step.
//
// hashKey is a pure function of the key bytes. It is recomputed on every
// probe and after every resize; nothing is cached across table lifetimes.
func hashKey(key []byte) uint32 {
	var h uint32
	for _, b := range key {
		h = crcTable[byte(h)^b] ^ (h >> 8)
	}

	h += h << 12
	h ^= h >> 22
	h += h << 4
	h ^= h >> 9
	h += h << 10
	h ^= h >> 2
	h += h << 7
	h ^= h >> 12

	return (h >> 3) * 2654435761
}
