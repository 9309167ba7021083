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
package poset

import (
	"math/big"
	"testing"

	"github.com/consensys/go-flats/pkg/util/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Poset_01(t *testing.T) {
	// Boolean lattice on two atoms, given with a redundant relation
	p := mustPoset(t, 4, [2]uint{0, 1}, [2]uint{0, 2}, [2]uint{1, 3}, [2]uint{2, 3}, [2]uint{0, 3})
	//
	assert.Equal(t, uint(4), p.Size())
	assert.Equal(t, []uint{1, 2}, p.UpperCovers(0))
	assert.Equal(t, []uint{1, 2}, p.LowerCovers(3))
	assert.Equal(t, []uint{1, 2}, p.Atoms())
	assert.Equal(t, uint(2), p.Height())
	assert.True(t, p.Le(0, 3))
	assert.True(t, p.Le(3, 3))
	assert.False(t, p.Lt(3, 3))
	assert.False(t, p.Le(1, 2))
	assert.Len(t, p.CoverRelations(), 4)
	//
	top, ok := p.Top()
	require.True(t, ok)
	assert.Equal(t, uint(3), top)
}

func Test_Poset_02(t *testing.T) {
	_, err := New(2, [][2]uint{{0, 1}, {1, 0}})
	assert.ErrorIs(t, err, ErrCyclic)
	//
	_, err = New(2, [][2]uint{{0, 0}})
	assert.ErrorIs(t, err, ErrCyclic)
	//
	_, err = New(2, [][2]uint{{0, 2}})
	assert.ErrorIs(t, err, ErrBadElement)
}

func Test_Poset_03(t *testing.T) {
	// Two minimal elements
	_, err := NewGraded(3, [][2]uint{{0, 2}, {1, 2}})
	assert.ErrorIs(t, err, ErrNoBottom)
	// Pentagon N5 is not graded
	_, err = NewGraded(5, [][2]uint{{0, 1}, {1, 2}, {2, 4}, {0, 3}, {3, 4}})
	assert.ErrorIs(t, err, ErrNotGraded)
}

func Test_Poset_04(t *testing.T) {
	p := boolean(t, 3)
	//
	down := Elements(p.DownSet(7))
	assert.Len(t, down, 8)
	//
	up := Elements(p.UpSet(1))
	assert.Equal(t, []uint{1, 3, 5, 7}, up)
	// Seeded closure
	closure := p.Closure([]uint{1, 2}, p.UpperCovers)
	assert.Equal(t, uint64(6), closure.GetCardinality())
	// Subposet of an upset is again boolean
	sub, err := p.Subposet(up)
	require.NoError(t, err)
	assert.True(t, Isomorphic(sub, boolean(t, 2)))
}

func Test_Poset_05(t *testing.T) {
	// Boolean lattice has Möbius function (-1)^rank
	p := boolean(t, 3)
	mu := p.Mobius()
	//
	for x := range p.Size() {
		expected := int64(1)
		if p.Rank(x)%2 == 1 {
			expected = -1
		}
		//
		assert.Equal(t, big.NewInt(expected), mu[x])
	}
	// χ(q) = (q-1)³
	chi := p.CharacteristicPolynomial()
	assert.True(t, chi.Equals(poly.NewUnivariate(-1, 3, -3, 1)), chi.String())
}

func Test_Poset_06(t *testing.T) {
	// Bottom, three atoms, top
	p := mustPoset(t, 5, [2]uint{0, 1}, [2]uint{0, 2}, [2]uint{0, 3}, [2]uint{1, 4}, [2]uint{2, 4}, [2]uint{3, 4})
	//
	assert.Equal(t, big.NewInt(2), p.Mobius()[4])
	assert.True(t, p.CharacteristicPolynomial().Equals(poly.NewUnivariate(2, -3, 1)))
}

func Test_Poset_07(t *testing.T) {
	// Elements given out of rank order
	p := mustPoset(t, 4, [2]uint{3, 0}, [2]uint{3, 1}, [2]uint{0, 2}, [2]uint{1, 2})
	q, order := p.Sorted()
	//
	assert.Equal(t, []uint{3, 0, 1, 2}, order)
	assert.Equal(t, []uint{1, 2}, q.Atoms())
	assert.True(t, Isomorphic(p, q))
}

func Test_Poset_08(t *testing.T) {
	// Chain of three vs "V" shape
	chain := mustPoset(t, 3, [2]uint{0, 1}, [2]uint{1, 2})
	vee := mustPoset(t, 3, [2]uint{0, 1}, [2]uint{0, 2})
	//
	assert.False(t, Isomorphic(chain, vee))
	assert.True(t, Isomorphic(chain, mustPoset(t, 3, [2]uint{2, 0}, [2]uint{0, 1})))
}

func Test_Poset_09(t *testing.T) {
	// Same size, rank profile and number of covers, different structure.
	cube := boolean(t, 3)
	other := mustPoset(t, 8,
		[2]uint{0, 1}, [2]uint{0, 2}, [2]uint{0, 3},
		[2]uint{1, 4}, [2]uint{1, 5}, [2]uint{2, 4}, [2]uint{2, 5}, [2]uint{3, 6}, [2]uint{3, 6},
		[2]uint{4, 7}, [2]uint{5, 7}, [2]uint{6, 7})
	//
	assert.False(t, Isomorphic(cube, other))
	assert.True(t, Isomorphic(cube, cube.Relabel([]uint{0, 4, 2, 6, 1, 5, 3, 7})))
}

func Test_Poset_10(t *testing.T) {
	p := mustPoset(t, 2, [2]uint{0, 1})
	assert.Equal(t, "Poset(2){0<1}", p.String())
	assert.Equal(t, []uint{1}, p.Level(1))
}

// ===================================================================
// Test Helpers
// ===================================================================

func mustPoset(t *testing.T, n uint, relations ...[2]uint) *Poset {
	p, err := New(n, relations)
	require.NoError(t, err)
	//
	return p
}

// Construct the boolean lattice on n atoms, where element x is the subset
// whose bits are set in x.
func boolean(t *testing.T, n uint) *Poset {
	var relations [][2]uint
	//
	for x := uint(0); x < 1<<n; x++ {
		for i := range n {
			if x&(1<<i) == 0 {
				relations = append(relations, [2]uint{x, x | (1 << i)})
			}
		}
	}
	//
	p, err := NewGraded(1<<n, relations)
	require.NoError(t, err)
	//
	return p
}
