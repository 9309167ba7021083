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
package matroid

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/affine"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
)

// ErrLoop signals a matroid element of rank zero.  Such elements correspond to
// degenerate hyperplanes and are not supported.
var ErrLoop = errors.New("matroid has a loop")

// Matroid is described by a rank oracle over subsets of its ground set
// {0,...,n-1}.  Implementations must be safe for concurrent use.
type Matroid interface {
	// Size returns the number of elements in the ground set.
	Size() uint
	// Rank returns the rank of a given subset of the ground set.
	Rank(set *bitset.BitSet) uint
}

// Closure returns the smallest flat containing a given set, which consists of
// every element whose addition leaves the rank unchanged.
func Closure(m Matroid, set *bitset.BitSet) *bitset.BitSet {
	var (
		rank    = m.Rank(set)
		closure = set.Clone()
	)
	//
	for e := range m.Size() {
		if set.Test(e) {
			continue
		}
		//
		extended := set.Clone().Set(e)
		//
		if m.Rank(extended) == rank {
			closure.Set(e)
		}
	}
	//
	return closure
}

// FullRank returns the rank of the matroid (i.e. of its ground set).
func FullRank(m Matroid) uint {
	all := bitset.New(m.Size())
	//
	for e := range m.Size() {
		all.Set(e)
	}
	//
	return m.Rank(all)
}

// CheckLoops returns an error if any element of the matroid is a loop.
func CheckLoops(m Matroid) error {
	for e := range m.Size() {
		if m.Rank(bitset.New(m.Size()).Set(e)) == 0 {
			return errors.Wrapf(ErrLoop, "element %d", e)
		}
	}
	//
	return nil
}

// ============================================================================
// Linear
// ============================================================================

// Linear is the column matroid of a list of vectors, where the rank of a set is
// the dimension of the span of the corresponding vectors.
type Linear[F field.Element[F]] struct {
	vectors [][]F
}

// NewLinear constructs the matroid represented by a given list of vectors.
func NewLinear[F field.Element[F]](vectors [][]F) *Linear[F] {
	return &Linear[F]{vectors}
}

// Size implementation for the Matroid interface.
func (p *Linear[F]) Size() uint {
	return uint(len(p.vectors))
}

// Rank implementation for the Matroid interface.
func (p *Linear[F]) Rank(set *bitset.BitSet) uint {
	var matrix [][]F
	//
	for i, ok := set.NextSet(0); ok && i < p.Size(); i, ok = set.NextSet(i + 1) {
		matrix = append(matrix, p.vectors[i])
	}
	//
	return affine.Rank(matrix)
}

// ============================================================================
// Uniform
// ============================================================================

// Uniform is the matroid on n elements where every set of at most r elements
// is independent.
type Uniform struct {
	rank uint
	size uint
}

// NewUniform constructs the uniform matroid U(r,n).
func NewUniform(rank uint, size uint) Uniform {
	return Uniform{min(rank, size), size}
}

// Size implementation for the Matroid interface.
func (p Uniform) Size() uint {
	return p.size
}

// Rank implementation for the Matroid interface.
func (p Uniform) Rank(set *bitset.BitSet) uint {
	var count uint
	//
	for i, ok := set.NextSet(0); ok && i < p.size; i, ok = set.NextSet(i + 1) {
		count++
	}
	//
	return min(count, p.rank)
}
