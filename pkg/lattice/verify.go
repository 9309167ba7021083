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

	"github.com/consensys/go-flats/pkg/util"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/pkg/errors"
)

// Verify exhaustively checks the structural invariants of this lattice.  Every
// label must be distinct, the bottom must have the empty label, and labels
// must strictly increase along covers.  With coordinates, intersecting the
// hyperplanes of each label must also reproduce the flat: a nonempty subspace
// whose codimension is the rank of the element, which lies in no other
// hyperplane, and which matches the stored subspace (if any).  A failure
// indicates a defect in construction, not bad input.
func (l *Lattice[F]) Verify() error {
	if l.IsLazy() {
		return ErrLazy
	} else if l.index.Size() != l.Size() {
		return errors.Wrapf(ErrSanity, "%d distinct labels for %d elements", l.index.Size(), l.Size())
	} else if l.labels[0].Any() {
		return errors.Wrap(ErrSanity, "bottom has nonempty label")
	}
	//
	for _, c := range l.poset.CoverRelations() {
		if !bit.StrictSubset(l.labels[c[0]], l.labels[c[1]]) {
			return errors.Wrapf(ErrSanity, "labels of %d and %d are not ordered", c[0], c[1])
		}
	}
	//
	if l.arrangement != nil {
		workers := l.opts.workers()
		jobs := util.BalancedSlices(int(l.Size()), workers)
		//
		if _, err := util.ForkJoin(context.Background(), workers, jobs, func(_ context.Context, s [2]int) (bool, error) {
			for x := s[0]; x < s[1]; x++ {
				if err := l.verifyFlat(uint(x)); err != nil {
					return false, err
				}
			}
			//
			return true, nil
		}); err != nil {
			return err
		}
	}
	//
	l.opts.metrics.verified()
	//
	return nil
}

// Check a flat is reconstructed exactly from its label.
func (l *Lattice[F]) verifyFlat(x uint) error {
	space, ok := l.arrangement.Intersection(bit.Indices(l.labels[x]))
	//
	if !ok {
		return errors.Wrapf(ErrSanity, "element %d has empty intersection", x)
	} else if space.Codim() != l.poset.Rank(x) {
		return errors.Wrapf(ErrSanity, "element %d has codimension %d but rank %d", x, space.Codim(), l.poset.Rank(x))
	} else if l.flats != nil && !space.Equals(l.flats[x]) {
		return errors.Wrapf(ErrSanity, "element %d does not match its flat", x)
	}
	//
	for i, h := range l.arrangement.Hyperplanes() {
		if !l.labels[x].Test(uint(i)) && h.Subspace().Includes(space) {
			return errors.Wrapf(ErrSanity, "element %d lies in hyperplane %d outside its label", x, i)
		}
	}
	//
	return nil
}
