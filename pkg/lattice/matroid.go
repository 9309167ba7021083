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
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/arrangement"
	"github.com/consensys/go-flats/pkg/matroid"
	"github.com/consensys/go-flats/pkg/util"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/collection/hash"
	"github.com/consensys/go-flats/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// FromMatroid constructs the lattice of flats of a matroid without any
// coordinates.  Each flat is labelled by itself (as a subset of the ground
// set), so hyperplane indices are matroid elements.
func FromMatroid[F field.Element[F]](m matroid.Matroid, opts ...Option) (*Lattice[F], error) {
	o := newOptions(opts)
	//
	if err := matroid.CheckLoops(m); err != nil {
		return nil, err
	}
	//
	levels, err := matroidLevels(context.Background(), m, o)
	//
	if err != nil {
		return nil, err
	}
	//
	return assemble[F](nil, levels, nil, m.Size(), o)
}

// FromArrangementViaMatroid constructs the lattice of flats of an arrangement
// from the linear matroid of its normal vectors, rather than by intersecting
// subspaces.  A non-central arrangement is first coned, and the flats lying
// in the hyperplane at infinity are then discarded.
func FromArrangementViaMatroid[F field.Element[F]](arr *arrangement.Arrangement[F],
	opts ...Option) (*Lattice[F], error) {
	var (
		o     = newOptions(opts)
		stats = util.NewPerfStats()
	)
	//
	if arr.IsCentral() {
		levels, err := matroidLevels(context.Background(), matroid.NewLinear(arr.Normals()), o)
		//
		if err != nil {
			return nil, err
		}
		//
		return assemble(arr, levels, nil, arr.Len(), o)
	}
	//
	var (
		cone     = arr.Cone()
		infinity = arr.Len()
	)
	//
	levels, err := matroidLevels(context.Background(), matroid.NewLinear(cone.Normals()), o)
	//
	if err != nil {
		return nil, err
	}
	// Decone by removing the filter above the hyperplane at infinity.
	var kept [][]*bitset.BitSet
	//
	for _, level := range levels {
		var nlevel []*bitset.BitSet
		//
		for _, label := range level {
			if !label.Test(infinity) {
				nlevel = append(nlevel, label)
			}
		}
		//
		if len(nlevel) == 0 {
			break
		}
		//
		kept = append(kept, nlevel)
	}
	//
	stats.Log("Deconing matroid lattice")
	//
	return assemble(arr, kept, nil, arr.Len(), o)
}

// Compute the flats of a matroid at each rank.  Every flat of rank r+1 is the
// closure of a flat of rank r extended by one element.
func matroidLevels(ctx context.Context, m matroid.Matroid, o options) ([][]*bitset.BitSet, error) {
	var (
		n       = m.Size()
		levels  = [][]*bitset.BitSet{{bitset.New(n)}}
		workers = o.workers()
	)
	//
	for r := 0; ; r++ {
		var (
			stats   = util.NewPerfStats()
			current = levels[r]
			jobs    = util.BalancedSlices(len(current), workers)
		)
		//
		log.Debugf("Working on matroid flats of rank %d (from %d flats of rank %d)", r+1, len(current), r)
		//
		batches, err := util.ForkJoin(ctx, workers, jobs, func(_ context.Context, s [2]int) ([]*bitset.BitSet, error) {
			return extendFlats(m, current[s[0]:s[1]]), nil
		})
		//
		if err != nil {
			return nil, err
		}
		// Merge across workers
		var (
			seen = hash.NewMap[bit.Key, struct{}](0)
			next []*bitset.BitSet
		)
		//
		for _, bt := range batches {
			for _, f := range bt {
				if !seen.Insert(bit.NewKey(f), struct{}{}) {
					next = append(next, f)
				}
			}
		}
		//
		o.metrics.round(len(next), stats.Elapsed())
		stats.Log(fmt.Sprintf("Matroid rank %d (%d flats)", r+1, len(next)))
		//
		if len(next) == 0 {
			return levels, nil
		}
		//
		levels = append(levels, next)
	}
}

// Extend each flat by every element outside it, skipping elements already
// absorbed by an earlier extension of the same flat.
func extendFlats(m matroid.Matroid, flats []*bitset.BitSet) []*bitset.BitSet {
	var (
		seen   = hash.NewMap[bit.Key, struct{}](0)
		result []*bitset.BitSet
	)
	//
	for _, f := range flats {
		covered := f.Clone()
		//
		for e := range m.Size() {
			if covered.Test(e) {
				continue
			}
			//
			closure := matroid.Closure(m, f.Clone().Set(e))
			covered.InPlaceUnion(closure)
			//
			if !seen.Insert(bit.NewKey(closure), struct{}{}) {
				result = append(result, closure)
			}
		}
	}
	//
	return result
}
