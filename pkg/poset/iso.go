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
	"slices"
	"strconv"
	"strings"
)

// Matcher decides whether two posets are isomorphic, meaning there exists a
// bijection between their elements which preserves and reflects the order.
// Implementations must be safe for concurrent use.
type Matcher interface {
	Isomorphic(lhs, rhs *Poset) bool
}

// Isomorphic decides poset isomorphism using the default matcher.
func Isomorphic(lhs, rhs *Poset) bool {
	return RefinementMatcher{}.Isomorphic(lhs, rhs)
}

// RefinementMatcher decides isomorphism in two stages.  First, elements of both
// posets are coloured by iterated refinement over their cover relations, and
// the colour histograms compared.  Since colours are isomorphism invariant,
// differing histograms rule out an isomorphism.  Otherwise, a backtracking
// search assigns elements in order of increasing rank, only ever mapping an
// element onto one of the same colour whose lower covers are the images of its
// own lower covers.
type RefinementMatcher struct{}

// Isomorphic implementation for the Matcher interface.
func (m RefinementMatcher) Isomorphic(lhs, rhs *Poset) bool {
	if lhs.Size() != rhs.Size() {
		return false
	} else if len(lhs.CoverRelations()) != len(rhs.CoverRelations()) {
		return false
	}
	//
	lcolours, rcolours := refine(lhs, rhs)
	// Compare histograms
	if !sameHistogram(lcolours, rcolours) {
		return false
	}
	//
	s := newSearch(lhs, rhs, lcolours, rcolours)
	//
	return s.run(0)
}

// Refine computes stable colours for the elements of two posets.  Colours are
// drawn from a shared palette, so equal colours across posets mean the same
// thing.
func refine(lhs, rhs *Poset) ([]uint, []uint) {
	var (
		palette  = make(map[string]uint)
		lcolours = initialColours(lhs, palette)
		rcolours = initialColours(rhs, palette)
		count    = len(palette)
	)
	//
	for {
		palette = make(map[string]uint)
		lcolours = refineColours(lhs, lcolours, palette)
		rcolours = refineColours(rhs, rcolours, palette)
		// Refinement never merges classes, so stability is reached once the
		// number of colours stops growing.
		if len(palette) == count {
			return lcolours, rcolours
		}
		//
		count = len(palette)
	}
}

func initialColours(p *Poset, palette map[string]uint) []uint {
	colours := make([]uint, p.Size())
	//
	for x := range colours {
		key := strconv.Itoa(int(p.Rank(uint(x)))) + ":" +
			strconv.Itoa(len(p.LowerCovers(uint(x)))) + ":" +
			strconv.Itoa(len(p.UpperCovers(uint(x))))
		colours[x] = colourOf(key, palette)
	}
	//
	return colours
}

func refineColours(p *Poset, colours []uint, palette map[string]uint) []uint {
	ncolours := make([]uint, len(colours))
	//
	for x := range colours {
		var builder strings.Builder
		//
		builder.WriteString(strconv.Itoa(int(colours[x])))
		builder.WriteString("|")
		writeColours(&builder, p.LowerCovers(uint(x)), colours)
		builder.WriteString("|")
		writeColours(&builder, p.UpperCovers(uint(x)), colours)
		//
		ncolours[x] = colourOf(builder.String(), palette)
	}
	//
	return ncolours
}

// Write the sorted multiset of colours for a given set of elements.
func writeColours(builder *strings.Builder, elements []uint, colours []uint) {
	cs := make([]uint, len(elements))
	//
	for i, x := range elements {
		cs[i] = colours[x]
	}
	//
	slices.Sort(cs)
	//
	for _, c := range cs {
		builder.WriteString(strconv.Itoa(int(c)))
		builder.WriteString(",")
	}
}

func colourOf(key string, palette map[string]uint) uint {
	if c, ok := palette[key]; ok {
		return c
	}
	//
	c := uint(len(palette))
	palette[key] = c
	//
	return c
}

func sameHistogram(lhs, rhs []uint) bool {
	counts := make(map[uint]int)
	//
	for _, c := range lhs {
		counts[c]++
	}
	//
	for _, c := range rhs {
		counts[c]--
	}
	//
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	//
	return true
}

// ============================================================================
// Backtracking search
// ============================================================================

type search struct {
	lhs, rhs *Poset
	// Elements of lhs in order of assignment.
	order []uint
	// Candidates in rhs for each colour.
	candidates map[uint][]uint
	lcolours   []uint
	// Current mapping from lhs to rhs.
	mapping []uint
	// Elements of rhs already used.
	used []bool
}

func newSearch(lhs, rhs *Poset, lcolours, rcolours []uint) *search {
	var (
		order      = make([]uint, lhs.Size())
		candidates = make(map[uint][]uint)
	)
	//
	for i := range order {
		order[i] = uint(i)
	}
	// Lower covers always have smaller rank, hence are assigned first.  Within
	// a rank, rarer colours go first to prune early.
	frequency := make(map[uint]int)
	//
	for _, c := range lcolours {
		frequency[c]++
	}
	//
	slices.SortStableFunc(order, func(x, y uint) int {
		if rx, ry := lhs.Rank(x), lhs.Rank(y); rx != ry {
			return int(rx) - int(ry)
		}
		//
		return frequency[lcolours[x]] - frequency[lcolours[y]]
	})
	//
	for y, c := range rcolours {
		candidates[c] = append(candidates[c], uint(y))
	}
	//
	return &search{lhs, rhs, order, candidates, lcolours, make([]uint, lhs.Size()), make([]bool, rhs.Size())}
}

func (s *search) run(i int) bool {
	if i == len(s.order) {
		return true
	}
	//
	x := s.order[i]
	//
	for _, y := range s.candidates[s.lcolours[x]] {
		if s.used[y] || !s.consistent(x, y) {
			continue
		}
		//
		s.mapping[x] = y
		s.used[y] = true
		//
		if s.run(i + 1) {
			return true
		}
		//
		s.used[y] = false
	}
	//
	return false
}

// Check that the (already mapped) lower covers of x map onto the lower covers
// of y.  Since both have the same number of lower covers and the mapping is
// injective, it suffices to check each image is a lower cover of y.
func (s *search) consistent(x, y uint) bool {
	ycovers := s.rhs.LowerCovers(y)
	//
	for _, c := range s.lhs.LowerCovers(x) {
		if _, ok := slices.BinarySearch(ycovers, s.mapping[c]); !ok {
			return false
		}
	}
	//
	return true
}
