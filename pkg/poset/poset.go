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
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// ErrCyclic signals an order relation containing a cycle.
var ErrCyclic = errors.New("order relation is cyclic")

// ErrBadElement signals a reference to an element outside the poset.
var ErrBadElement = errors.New("unknown element")

// ErrNoBottom signals a poset which does not have a unique minimal element.
var ErrNoBottom = errors.New("poset has no unique bottom")

// ErrNotGraded signals a poset with maximal chains of differing lengths.
var ErrNotGraded = errors.New("poset is not graded")

// Poset represents a finite partially ordered set over the elements
// {0,...,n-1}.  The order is described by its cover relations, and the rank of
// an element is the length of the longest chain ending at it.  Posets are
// immutable.
type Poset struct {
	// Lower covers of each element, in increasing order.
	lower [][]uint
	// Upper covers of each element, in increasing order.
	upper [][]uint
	// Rank of each element.
	rank []uint
	// Down-set of each element (including itself).
	below []*bitset.BitSet
}

// New constructs a poset on n elements from a list of pairs (x,y) each
// requiring x < y.  The pairs need not be cover relations, since the cover
// relations are derived by transitive reduction.  An error is returned if some
// pair mentions an unknown element, or the pairs form a cycle.
func New(n uint, relations [][2]uint) (*Poset, error) {
	var (
		preds    = make([][]uint, n)
		succs    = make([][]uint, n)
		indegree = make([]uint, n)
	)
	//
	for _, r := range relations {
		if r[0] >= n || r[1] >= n {
			return nil, errors.Wrapf(ErrBadElement, "relation %d < %d", r[0], r[1])
		} else if r[0] == r[1] {
			return nil, errors.Wrapf(ErrCyclic, "relation %d < %d", r[0], r[1])
		}
		//
		preds[r[1]] = append(preds[r[1]], r[0])
		succs[r[0]] = append(succs[r[0]], r[1])
		indegree[r[1]]++
	}
	// Determine a topological order
	order := topologicalOrder(succs, indegree)
	//
	if uint(len(order)) != n {
		return nil, ErrCyclic
	}
	//
	var (
		below = make([]*bitset.BitSet, n)
		lower = make([][]uint, n)
		upper = make([][]uint, n)
		rank  = make([]uint, n)
	)
	// Compute down-sets
	for _, y := range order {
		below[y] = bitset.New(n).Set(y)
		//
		for _, x := range preds[y] {
			below[y].InPlaceUnion(below[x])
		}
	}
	// Covers must be relations, though not all relations are covers.
	for _, y := range order {
		ps := dedup(preds[y])
		//
		for _, x := range ps {
			if isCover(x, y, ps, below) {
				lower[y] = append(lower[y], x)
				upper[x] = append(upper[x], y)
				rank[y] = max(rank[y], rank[x]+1)
			}
		}
	}
	//
	for x := range upper {
		slices.Sort(upper[x])
	}
	//
	return &Poset{lower, upper, rank, below}, nil
}

// NewGraded constructs a poset as for New, but additionally requires that it
// has a unique bottom and is graded.
func NewGraded(n uint, relations [][2]uint) (*Poset, error) {
	p, err := New(n, relations)
	//
	if err != nil {
		return nil, err
	} else if err = p.CheckGraded(); err != nil {
		return nil, err
	}
	//
	return p, nil
}

// CheckGraded checks that this poset has a unique bottom element, and that
// every cover relation increases rank by exactly one.  Together these ensure
// every maximal chain from the bottom to an element x has length rank(x).
func (p *Poset) CheckGraded() error {
	if _, ok := p.Bottom(); !ok {
		return errors.Wrapf(ErrNoBottom, "%d minimal elements", len(p.Minimal()))
	}
	//
	for y, covers := range p.lower {
		for _, x := range covers {
			if p.rank[y] != p.rank[x]+1 {
				return errors.Wrapf(ErrNotGraded, "cover %d < %d spans ranks %d to %d", x, y, p.rank[x], p.rank[y])
			}
		}
	}
	//
	return nil
}

// Size returns the number of elements in this poset.
func (p *Poset) Size() uint {
	return uint(len(p.rank))
}

// Contains checks whether x identifies an element of this poset.
func (p *Poset) Contains(x uint) bool {
	return x < p.Size()
}

// LowerCovers returns the elements covered by x.
func (p *Poset) LowerCovers(x uint) []uint {
	return p.lower[x]
}

// UpperCovers returns the elements covering x.
func (p *Poset) UpperCovers(x uint) []uint {
	return p.upper[x]
}

// Le checks whether x ≤ y.
func (p *Poset) Le(x, y uint) bool {
	return p.below[y].Test(x)
}

// Lt checks whether x < y.
func (p *Poset) Lt(x, y uint) bool {
	return x != y && p.below[y].Test(x)
}

// Rank returns the length of the longest chain ending at x.
func (p *Poset) Rank(x uint) uint {
	return p.rank[x]
}

// Height returns the maximum rank of any element, or zero for the empty poset.
func (p *Poset) Height() uint {
	var h uint
	//
	for _, r := range p.rank {
		h = max(h, r)
	}
	//
	return h
}

// Minimal returns every element which covers nothing.
func (p *Poset) Minimal() []uint {
	var elements []uint
	//
	for x, covers := range p.lower {
		if len(covers) == 0 {
			elements = append(elements, uint(x))
		}
	}
	//
	return elements
}

// Maximal returns every element which is covered by nothing.
func (p *Poset) Maximal() []uint {
	var elements []uint
	//
	for x, covers := range p.upper {
		if len(covers) == 0 {
			elements = append(elements, uint(x))
		}
	}
	//
	return elements
}

// Bottom returns the unique minimal element, if it exists.
func (p *Poset) Bottom() (uint, bool) {
	if m := p.Minimal(); len(m) == 1 {
		return m[0], true
	}
	//
	return 0, false
}

// Top returns the unique maximal element, if it exists.
func (p *Poset) Top() (uint, bool) {
	if m := p.Maximal(); len(m) == 1 {
		return m[0], true
	}
	//
	return 0, false
}

// Atoms returns the upper covers of the bottom element (or nothing if there is
// no unique bottom).
func (p *Poset) Atoms() []uint {
	if b, ok := p.Bottom(); ok {
		return p.upper[b]
	}
	//
	return nil
}

// Level returns all elements of a given rank, in increasing order.
func (p *Poset) Level(rank uint) []uint {
	var elements []uint
	//
	for x, r := range p.rank {
		if r == rank {
			elements = append(elements, uint(x))
		}
	}
	//
	return elements
}

// CoverRelations returns every pair (x,y) where y covers x, ordered by y and
// then x.
func (p *Poset) CoverRelations() [][2]uint {
	var covers [][2]uint
	//
	for y, xs := range p.lower {
		for _, x := range xs {
			covers = append(covers, [2]uint{x, uint(y)})
		}
	}
	//
	return covers
}

// Closure computes the smallest set containing a seed set of elements which is
// closed under a given step function, by breadth-first expansion.  For
// example, using LowerCovers as the step gives the order ideal generated by
// the seed.
func (p *Poset) Closure(seed []uint, step func(uint) []uint) *roaring.Bitmap {
	var (
		visited  = roaring.New()
		worklist = make([]uint, 0, len(seed))
	)
	//
	for _, x := range seed {
		if visited.CheckedAdd(uint32(x)) {
			worklist = append(worklist, x)
		}
	}
	//
	for len(worklist) > 0 {
		x := worklist[0]
		worklist = worklist[1:]
		//
		for _, y := range step(x) {
			if visited.CheckedAdd(uint32(y)) {
				worklist = append(worklist, y)
			}
		}
	}
	//
	return visited
}

// DownSet returns the set of elements below (or equal to) x.
func (p *Poset) DownSet(x uint) *roaring.Bitmap {
	return p.Closure([]uint{x}, p.LowerCovers)
}

// UpSet returns the set of elements above (or equal to) x.
func (p *Poset) UpSet(x uint) *roaring.Bitmap {
	return p.Closure([]uint{x}, p.UpperCovers)
}

// Subposet returns the poset induced on a given set of elements, where the ith
// element of the subposet corresponds to elements[i].
func (p *Poset) Subposet(elements []uint) (*Poset, error) {
	var relations [][2]uint
	//
	for _, x := range elements {
		if !p.Contains(x) {
			return nil, errors.Wrapf(ErrBadElement, "element %d", x)
		}
	}
	//
	for j, y := range elements {
		for i, x := range elements {
			if p.Lt(x, y) {
				relations = append(relations, [2]uint{uint(i), uint(j)})
			}
		}
	}
	//
	return New(uint(len(elements)), relations)
}

// Sorted returns an isomorphic copy of this poset whose elements are ordered
// by rank (with ties broken by the original order), along with the original
// element corresponding to each new element.
func (p *Poset) Sorted() (*Poset, []uint) {
	order := make([]uint, p.Size())
	//
	for i := range order {
		order[i] = uint(i)
	}
	//
	slices.SortStableFunc(order, func(x, y uint) int {
		return int(p.rank[x]) - int(p.rank[y])
	})
	//
	return p.Relabel(order), order
}

// Relabel returns an isomorphic copy of this poset in which the ith element
// corresponds to order[i] of this poset.  The order must be a permutation.
func (p *Poset) Relabel(order []uint) *Poset {
	var (
		inverse   = make([]uint, p.Size())
		relations [][2]uint
	)
	//
	for i, x := range order {
		inverse[x] = uint(i)
	}
	//
	for _, c := range p.CoverRelations() {
		relations = append(relations, [2]uint{inverse[c[0]], inverse[c[1]]})
	}
	//
	q, err := New(p.Size(), relations)
	//
	if err != nil {
		panic(fmt.Sprintf("internal failure (%s)", err.Error()))
	}
	//
	return q
}

func (p *Poset) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("Poset(%d){", p.Size()))
	//
	for i, c := range p.CoverRelations() {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%d<%d", c[0], c[1]))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// Elements converts a set of elements into a sorted slice.
func Elements(set *roaring.Bitmap) []uint {
	elements := make([]uint, 0, set.GetCardinality())
	//
	it := set.Iterator()
	//
	for it.HasNext() {
		elements = append(elements, uint(it.Next()))
	}
	//
	return elements
}

// ============================================================================
// Helpers
// ============================================================================

// Kahn's algorithm.  Elements are released in increasing order when several
// are available at once, making the result deterministic.
func topologicalOrder(succs [][]uint, indegree []uint) []uint {
	var (
		order    []uint
		worklist []uint
	)
	//
	for x, d := range indegree {
		if d == 0 {
			worklist = append(worklist, uint(x))
		}
	}
	//
	for len(worklist) > 0 {
		x := worklist[0]
		worklist = worklist[1:]
		order = append(order, x)
		//
		for _, y := range succs[x] {
			indegree[y]--
			//
			if indegree[y] == 0 {
				worklist = append(worklist, y)
			}
		}
	}
	//
	return order
}

// A relation x < y is a cover if x lies below no other immediate predecessor of y.
func isCover(x, y uint, preds []uint, below []*bitset.BitSet) bool {
	for _, z := range preds {
		if z != x && below[z].Test(x) {
			return false
		}
	}
	//
	return true
}

func dedup(items []uint) []uint {
	items = slices.Clone(items)
	slices.Sort(items)
	//
	return slices.Compact(items)
}
