// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package bit

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/util/collection/hash"
)

// Of constructs a bitset containing exactly the given values.
func Of(vals ...uint) *bitset.BitSet {
	var n uint
	//
	for _, v := range vals {
		n = max(n, v+1)
	}
	//
	set := bitset.New(n)
	//
	for _, v := range vals {
		set.Set(v)
	}
	//
	return set
}

// Range constructs the bitset {0,...,n-1}.
func Range(n uint) *bitset.BitSet {
	set := bitset.New(n)
	//
	for i := range n {
		set.Set(i)
	}
	//
	return set
}

// Equal checks whether two bitsets hold exactly the same values.  Unlike
// BitSet.Equal, the underlying lengths are ignored.
func Equal(lhs, rhs *bitset.BitSet) bool {
	return lhs.Count() == rhs.Count() && lhs.IsSuperSet(rhs)
}

// Subset checks whether every value of lhs is also a value of rhs.
func Subset(lhs, rhs *bitset.BitSet) bool {
	return rhs.IsSuperSet(lhs)
}

// StrictSubset checks lhs is a subset of rhs which differs from rhs.
func StrictSubset(lhs, rhs *bitset.BitSet) bool {
	return lhs.Count() < rhs.Count() && rhs.IsSuperSet(lhs)
}

// Hash computes a hashcode over the values of a bitset which is independent of
// its underlying length.
func Hash(set *bitset.BitSet) uint64 {
	values := make([]uint64, 0, set.Count())
	//
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		values = append(values, uint64(i))
	}
	//
	return hash.Combine(values...)
}

// Indices returns the values of a bitset in increasing order.
func Indices(set *bitset.BitSet) []uint {
	indices := make([]uint, 0, set.Count())
	//
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		indices = append(indices, i)
	}
	//
	return indices
}

// Remap renumbers the values of a bitset through a given mapping, where a
// negative entry drops the corresponding value.  Values outside the mapping are
// also dropped.
func Remap(set *bitset.BitSet, mapping []int) *bitset.BitSet {
	result := bitset.New(uint(len(mapping)))
	//
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		if i < uint(len(mapping)) && mapping[i] >= 0 {
			result.Set(uint(mapping[i]))
		}
	}
	//
	return result
}

// String returns a human-readable representation, such as "{0,2,5}".
func String(set *bitset.BitSet) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for j, i := range Indices(set) {
		if j != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", i))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// Key wraps a bitset so that it can be used as a key within a hash.Map.
type Key struct {
	set *bitset.BitSet
}

// NewKey constructs a key for the given bitset.  The bitset must not be
// mutated whilst the key is in use.
func NewKey(set *bitset.BitSet) Key {
	return Key{set}
}

// Set returns the underlying bitset of this key.
func (p Key) Set() *bitset.BitSet {
	return p.set
}

// Equals implementation for hash.Hasher interface.
func (p Key) Equals(other Key) bool {
	return Equal(p.set, other.set)
}

// Hash implementation for hash.Hasher interface.
func (p Key) Hash() uint64 {
	return Hash(p.set)
}
