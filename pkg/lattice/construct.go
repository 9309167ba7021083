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
	"context"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/arrangement"
	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
)

// FromPoset constructs a lattice from a graded poset alone.  Each element is
// labelled with the atoms below it, where hyperplane index i corresponds with
// the ith atom.
func FromPoset[F field.Element[F]](p *poset.Poset, opts ...Option) (*Lattice[F], error) {
	o := newOptions(opts)
	//
	if err := p.CheckGraded(); err != nil {
		return nil, err
	}
	//
	sorted, _ := p.Sorted()
	atoms := sorted.Atoms()
	// Label every element in parallel
	shares := util.RoundRobin(int(sorted.Size()), o.workers())
	//
	results, err := util.ForkJoin(context.Background(), o.workers(), shares,
		func(_ context.Context, share []int) ([]*bitset.BitSet, error) {
			labels := make([]*bitset.BitSet, len(share))
			//
			for i, x := range share {
				labels[i] = bitset.New(uint(len(atoms)))
				//
				for j, a := range atoms {
					if sorted.Le(a, uint(x)) {
						labels[i].Set(uint(j))
					}
				}
			}
			//
			return labels, nil
		})
	//
	if err != nil {
		return nil, err
	}
	//
	labels := make([]*bitset.BitSet, sorted.Size())
	//
	for w, share := range shares {
		for i, x := range share {
			labels[x] = results[w][i]
		}
	}
	//
	return newLattice[F](nil, sorted, labels, nil, uint(len(atoms)), o)
}

// New constructs a lattice from an arrangement (which may be nil), a graded
// poset and the label of each poset element.  Labels must be pairwise
// distinct, the bottom must have the empty label, and labels must strictly
// increase along every cover relation.  Elements are renumbered into rank
// order.
func New[F field.Element[F]](arr *arrangement.Arrangement[F], p *poset.Poset, labels []*bitset.BitSet,
	opts ...Option) (*Lattice[F], error) {
	o := newOptions(opts)
	//
	if err := p.CheckGraded(); err != nil {
		return nil, err
	} else if uint(len(labels)) != p.Size() {
		return nil, errors.Wrapf(ErrSanity, "%d labels for %d elements", len(labels), p.Size())
	}
	//
	for _, c := range p.CoverRelations() {
		if !bit.StrictSubset(labels[c[0]], labels[c[1]]) {
			return nil, errors.Wrapf(ErrSanity, "labels of %d and %d are not ordered", c[0], c[1])
		}
	}
	//
	var (
		sorted, order = p.Sorted()
		nlabels       = make([]*bitset.BitSet, len(labels))
		width         uint
	)
	//
	for i, x := range order {
		nlabels[i] = labels[x].Clone()
		//
		if last, ok := lastSet(nlabels[i]); ok {
			width = max(width, last+1)
		}
	}
	//
	if nlabels[0].Any() {
		return nil, errors.Wrap(ErrSanity, "bottom has nonempty label")
	}
	//
	if arr != nil {
		if width > arr.Len() {
			return nil, errors.Wrapf(ErrSanity, "label mentions hyperplane %d of %d", width-1, arr.Len())
		}
		//
		width = arr.Len()
	}
	//
	return newLattice(arr, sorted, nlabels, nil, width, o)
}

func lastSet(set *bitset.BitSet) (uint, bool) {
	var (
		last  uint
		found bool
	)
	//
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		last, found = i, true
	}
	//
	return last, found
}
