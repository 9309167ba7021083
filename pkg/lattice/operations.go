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
package lattice

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/affine"
	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/pkg/errors"
)

// Subarrangement returns the lattice of the local arrangement at x, which
// consists of the hyperplanes containing x.  Its poset is the down-set of x,
// and hyperplanes are renumbered in increasing order of their original index.
func (l *Lattice[F]) Subarrangement(ref Ref) (*Lattice[F], error) {
	x, err := l.Resolve(ref)
	//
	if err != nil {
		return nil, err
	}
	//
	var (
		elements = poset.Elements(l.poset.DownSet(x))
		indices  = bit.Indices(l.labels[x])
		mapping  = make([]int, l.width)
	)
	//
	for i := range mapping {
		mapping[i] = -1
	}
	//
	for i, index := range indices {
		mapping[index] = i
	}
	//
	sub, err := l.poset.Subposet(elements)
	//
	if err != nil {
		return nil, err
	}
	//
	labels := make([]*bitset.BitSet, len(elements))
	//
	for i, y := range elements {
		labels[i] = bit.Remap(l.labels[y], mapping)
	}
	//
	var flats []affine.Subspace[F]
	//
	if l.flats != nil {
		for _, y := range elements {
			flats = append(flats, l.flats[y])
		}
	}
	//
	if l.arrangement == nil {
		return newLattice[F](nil, sub, labels, flats, uint(len(indices)), l.opts)
	}
	//
	return newLattice(l.arrangement.Subset(indices), sub, labels, flats, uint(len(indices)), l.opts)
}

// Restriction returns the lattice of the arrangement induced on x.  Its poset
// is the up-set of x.  With coordinates, the induced hyperplanes are computed
// by contraction and the ith induced hyperplane corresponds with a unique
// upper cover of x.  Without coordinates, the ith hyperplane is simply the
// ith upper cover of x.
func (l *Lattice[F]) Restriction(ref Ref) (*Lattice[F], error) {
	x, err := l.Resolve(ref)
	//
	if err != nil {
		return nil, err
	}
	//
	elements := poset.Elements(l.poset.UpSet(x))
	sub, err := l.poset.Subposet(elements)
	//
	if err != nil {
		return nil, err
	}
	//
	if l.arrangement == nil {
		covers := l.poset.UpperCovers(x)
		labels := make([]*bitset.BitSet, len(elements))
		//
		for i, y := range elements {
			labels[i] = bitset.New(uint(len(covers)))
			//
			for j, c := range covers {
				if l.poset.Le(c, y) {
					labels[i].Set(uint(j))
				}
			}
		}
		//
		return newLattice[F](nil, sub, labels, nil, uint(len(covers)), l.opts)
	}
	//
	res, groups, err := l.arrangement.Restrict(bit.Indices(l.labels[x]))
	//
	if err != nil {
		return nil, err
	}
	//
	if err := l.matchCovers(x, groups); err != nil {
		return nil, err
	}
	//
	labels := make([]*bitset.BitSet, len(elements))
	//
	for i, y := range elements {
		labels[i] = bitset.New(uint(len(groups)))
		//
		for j, g := range groups {
			// Either all of a group contains y, or none of it does.
			if l.labels[y].Test(g[0]) {
				labels[i].Set(uint(j))
			}
		}
	}
	//
	return newLattice(res, sub, labels, nil, res.Len(), l.opts)
}

// Check every group of hyperplanes inducing the same hyperplane on x
// corresponds to exactly one upper cover of x, whose label is the label of x
// together with the group.
func (l *Lattice[F]) matchCovers(x uint, groups [][]uint) error {
	covers := l.poset.UpperCovers(x)
	//
	if len(covers) != len(groups) {
		return errors.Wrapf(ErrSanity, "%d induced hyperplanes for %d covers of element %d", len(groups), len(covers), x)
	}
	//
	for _, g := range groups {
		label := l.labels[x].Clone()
		//
		for _, i := range g {
			label.Set(i)
		}
		//
		if c, ok := l.Find(label); !ok || !l.poset.Lt(x, c) || l.poset.Rank(c) != l.poset.Rank(x)+1 {
			return errors.Wrapf(ErrSanity, "no cover of element %d labelled %s", x, bit.String(label))
		}
	}
	//
	return nil
}

// Deletion returns the lattice of the arrangement without the hyperplane(s)
// of a given atom.  Remaining hyperplanes are renumbered, preserving their
// order.  If some flat is contained in every other hyperplane, then the result
// is its down-set.  Otherwise, every flat whose label (less the deleted
// hyperplanes) is not already the label of another flat survives.
func (l *Lattice[F]) Deletion(ref Ref) (*Lattice[F], error) {
	x, err := l.Resolve(ref)
	//
	if err != nil {
		return nil, err
	} else if l.poset.Rank(x) != 1 {
		return nil, errors.Wrapf(ErrNotAtom, "%s", ref.String())
	}
	//
	deleted := l.labels[x]
	// Look for a flat contained in every other hyperplane
	if y, ok := l.Find(bit.Range(l.width).Difference(deleted)); ok {
		return l.deleteByDownSet(y, deleted)
	}
	//
	return l.deleteByFilter(deleted)
}

// Delete using the down-set of the flat labelled by every remaining hyperplane.
func (l *Lattice[F]) deleteByDownSet(y uint, deleted *bitset.BitSet) (*Lattice[F], error) {
	return l.deleteWith(poset.Elements(l.poset.DownSet(y)), deleted)
}

// Delete by filtering out those flats which are no longer intersections.
func (l *Lattice[F]) deleteByFilter(deleted *bitset.BitSet) (*Lattice[F], error) {
	var elements []uint
	//
	for y, label := range l.labels {
		if label.IntersectionCardinality(deleted) == 0 {
			elements = append(elements, uint(y))
		} else if _, ok := l.Find(label.Difference(deleted)); !ok {
			elements = append(elements, uint(y))
		}
	}
	//
	return l.deleteWith(elements, deleted)
}

func (l *Lattice[F]) deleteWith(elements []uint, deleted *bitset.BitSet) (*Lattice[F], error) {
	var (
		mapping = make([]int, l.width)
		kept    []uint
	)
	//
	for i := range mapping {
		if deleted.Test(uint(i)) {
			mapping[i] = -1
		} else {
			mapping[i] = len(kept)
			kept = append(kept, uint(i))
		}
	}
	//
	sub, err := l.poset.Subposet(elements)
	//
	if err != nil {
		return nil, err
	}
	//
	var (
		labels = make([]*bitset.BitSet, len(elements))
		flats  []affine.Subspace[F]
	)
	//
	for i, y := range elements {
		labels[i] = bit.Remap(l.labels[y], mapping)
		//
		if l.flats != nil {
			flats = append(flats, l.flats[y])
		}
	}
	//
	if l.arrangement == nil {
		return newLattice[F](nil, sub, labels, flats, uint(len(kept)), l.opts)
	}
	//
	return newLattice(l.arrangement.Subset(kept), sub, labels, flats, uint(len(kept)), l.opts)
}

// LazyDeletion returns the lazy lattice of the arrangement without its ith
// hyperplane.
func (l *Lattice[F]) LazyDeletion(i uint) (*Lattice[F], error) {
	if l.arrangement == nil {
		return nil, ErrNoArrangement
	} else if i >= l.arrangement.Len() {
		return nil, errors.Wrapf(ErrUnknownElement, "hyperplane %d", i)
	}
	//
	return l.derive(l.arrangement.Delete(i)), nil
}

// LazyRestriction returns the lazy lattice of the (simple) arrangement induced
// on the ith hyperplane.
func (l *Lattice[F]) LazyRestriction(i uint) (*Lattice[F], error) {
	if l.arrangement == nil {
		return nil, ErrNoArrangement
	} else if i >= l.arrangement.Len() {
		return nil, errors.Wrapf(ErrUnknownElement, "hyperplane %d", i)
	}
	//
	res, _, err := l.arrangement.RestrictTo(i)
	//
	if err != nil {
		return nil, err
	}
	//
	return l.derive(res), nil
}
