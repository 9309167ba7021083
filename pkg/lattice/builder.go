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
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/affine"
	"github.com/consensys/go-flats/pkg/arrangement"
	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/collection/hash"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FromArrangement constructs the lattice of flats of a given arrangement, level
// by level, using exact intersection of affine subspaces.
func FromArrangement[F field.Element[F]](arr *arrangement.Arrangement[F], opts ...Option) (*Lattice[F], error) {
	return fromArrangement(arr, newOptions(opts))
}

func fromArrangement[F field.Element[F]](arr *arrangement.Arrangement[F], o options) (*Lattice[F], error) {
	var (
		stats = util.NewPerfStats()
		b     = newBuilder(arr, o)
	)
	//
	levels, err := b.run(context.Background())
	//
	if err != nil {
		return nil, err
	}
	//
	var (
		labels = make([][]*bitset.BitSet, len(levels))
		flats  []affine.Subspace[F]
	)
	//
	for r, level := range levels {
		for _, f := range level {
			labels[r] = append(labels[r], f.label)
			flats = append(flats, f.space)
		}
	}
	//
	l, err := assemble(arr, labels, flats, arr.Len(), o)
	//
	stats.Log(fmt.Sprintf("Constructing lattice of flats (%d elements)", len(flats)))
	//
	return l, err
}

// Flat is a candidate flat discovered during construction.
type flat[F field.Element[F]] struct {
	space affine.Subspace[F]
	label *bitset.BitSet
}

// Outcome of a worker processing one slice of a level.
type batch[F field.Element[F]] struct {
	// Final labels of the owned flats.
	labels []*bitset.BitSet
	// Flats of the next rank, deduplicated within this batch.
	candidates []flat[F]
}

// Builder holds the read-only context shared by every worker.
type builder[F field.Element[F]] struct {
	arr *arrangement.Arrangement[F]
	// Distinct hyperplanes, each labelled with all of its duplicates.
	atoms []flat[F]
	opts  options
}

func newBuilder[F field.Element[F]](arr *arrangement.Arrangement[F], opts options) *builder[F] {
	var (
		simple, groups = arr.Simplify()
		atoms          = make([]flat[F], simple.Len())
	)
	//
	for i, h := range simple.Hyperplanes() {
		label := bitset.New(arr.Len())
		//
		for _, j := range groups[i] {
			label.Set(j)
		}
		//
		atoms[i] = flat[F]{h.Subspace(), label}
	}
	//
	return &builder[F]{arr, atoms, opts}
}

// Run the construction, returning the flats at each rank.
func (b *builder[F]) run(ctx context.Context) ([][]flat[F], error) {
	var (
		width   = b.arr.Len()
		bottom  = flat[F]{affine.Ambient[F](b.arr.Dim()), bitset.New(width)}
		levels  = [][]flat[F]{{bottom}}
		rank    = b.arr.Rank()
		central = b.arr.IsCentral()
		workers = b.opts.workers()
	)
	//
	if len(b.atoms) == 0 {
		return levels, nil
	}
	//
	levels = append(levels, cloneFlats(b.atoms))
	//
	for r := 1; ; r++ {
		var (
			stats   = util.NewPerfStats()
			current = levels[r]
			// The top of a central arrangement is the intersection of everything.
			shortcut = central && uint(r+1) == rank
			jobs     = util.BalancedSlices(len(current), workers)
		)
		//
		log.Debugf("Working on flats of rank %d (from %d flats of rank %d)", r+1, len(current), r)
		//
		batches, err := util.ForkJoin(ctx, workers, jobs, func(_ context.Context, s [2]int) (batch[F], error) {
			return b.expand(current[s[0]:s[1]], !shortcut), nil
		})
		//
		if err != nil {
			return nil, err
		}
		// Install final labels for the current level
		k := 0
		//
		for _, bt := range batches {
			for _, label := range bt.labels {
				current[k].label = label
				k++
			}
		}
		//
		var next []flat[F]
		//
		if shortcut {
			next = []flat[F]{b.top()}
		} else {
			log.Debugf("Merging candidates from %d workers", len(batches))
			next = merge(batches)
		}
		//
		b.opts.metrics.round(len(next), stats.Elapsed())
		stats.Log(fmt.Sprintf("Rank %d (%d flats)", r+1, len(next)))
		//
		if len(next) == 0 {
			break
		}
		//
		levels = append(levels, next)
		//
		if shortcut {
			break
		}
	}
	//
	return levels, nil
}

// Expand a slice of flats by intersecting each with every hyperplane not
// already known to contain it.  The label of each flat is completed before any
// candidates are generated from it, so candidates always inherit its final
// label.
func (b *builder[F]) expand(owned []flat[F], generate bool) batch[F] {
	var (
		labels     = make([]*bitset.BitSet, len(owned))
		seen       = hash.NewMap[affine.Subspace[F], int](0)
		candidates []flat[F]
	)
	//
	for i, t := range owned {
		var (
			label   = t.label.Clone()
			pending []flat[F]
		)
		//
		for _, atom := range b.atoms {
			if bit.Subset(atom.label, label) {
				continue
			}
			//
			space, ok := atom.space.Intersect(t.space)
			//
			if !ok {
				continue
			} else if space.Equals(t.space) {
				// Hyperplane contains the flat
				label.InPlaceUnion(atom.label)
			} else {
				pending = append(pending, flat[F]{space, atom.label})
			}
		}
		//
		labels[i] = label
		//
		if !generate {
			continue
		}
		//
		for _, c := range pending {
			nlabel := label.Union(c.label)
			//
			if k, ok := seen.Get(c.space); ok {
				candidates[k].label.InPlaceUnion(nlabel)
			} else {
				seen.Insert(c.space, len(candidates))
				candidates = append(candidates, flat[F]{c.space, nlabel})
			}
		}
	}
	//
	return batch[F]{labels, candidates}
}

// Intersection of every hyperplane, for a central arrangement.
func (b *builder[F]) top() flat[F] {
	all := bit.Range(b.arr.Len())
	space, ok := b.arr.Intersection(bit.Indices(all))
	//
	if !ok {
		panic("internal failure (arrangement not central)")
	}
	//
	return flat[F]{space, all}
}

// Merge candidates across batches in two passes.  The first identifies
// geometrically equal flats, combining their labels.  The second identifies
// flats whose labels have become identical.  In both cases the first
// occurrence is kept.
func merge[F field.Element[F]](batches []batch[F]) []flat[F] {
	var (
		geometric = hash.NewMap[affine.Subspace[F], int](0)
		merged    []flat[F]
	)
	//
	for _, bt := range batches {
		for _, c := range bt.candidates {
			if k, ok := geometric.Get(c.space); ok {
				merged[k].label.InPlaceUnion(c.label)
			} else {
				geometric.Insert(c.space, len(merged))
				merged = append(merged, c)
			}
		}
	}
	//
	var (
		labels = hash.NewMap[bit.Key, int](0)
		result []flat[F]
	)
	//
	for _, c := range merged {
		if !labels.Insert(bit.NewKey(c.label), len(result)) {
			result = append(result, c)
		}
	}
	//
	return result
}

func cloneFlats[F field.Element[F]](flats []flat[F]) []flat[F] {
	nflats := slices.Clone(flats)
	//
	for i := range nflats {
		nflats[i].label = nflats[i].label.Clone()
	}
	//
	return nflats
}

// Assemble a lattice from the labels of its flats at each rank.  Cover
// relations are exactly the strict label inclusions between consecutive ranks.
func assemble[F field.Element[F]](arr *arrangement.Arrangement[F], levels [][]*bitset.BitSet,
	flats []affine.Subspace[F], width uint, opts options) (*Lattice[F], error) {
	var (
		labels  []*bitset.BitSet
		offsets []int
		ranks   []int
	)
	//
	for r, level := range levels {
		offsets = append(offsets, len(labels))
		//
		for _, label := range level {
			labels = append(labels, label)
			ranks = append(ranks, r)
		}
	}
	//
	jobs := util.BalancedSlices(len(labels), opts.workers())
	// Compute covers in parallel
	covers, err := util.ForkJoin(context.Background(), opts.workers(), jobs,
		func(_ context.Context, s [2]int) ([][2]uint, error) {
			var covers [][2]uint
			//
			for y := s[0]; y < s[1]; y++ {
				if ranks[y] == 0 {
					continue
				}
				//
				start := offsets[ranks[y]-1]
				//
				for x := start; x < start+len(levels[ranks[y]-1]); x++ {
					if bit.Subset(labels[x], labels[y]) {
						covers = append(covers, [2]uint{uint(x), uint(y)})
					}
				}
			}
			//
			return covers, nil
		})
	//
	if err != nil {
		return nil, err
	}
	//
	p, err := poset.NewGraded(uint(len(labels)), slices.Concat(covers...))
	//
	if err != nil {
		return nil, errors.Wrap(err, "assembling lattice")
	}
	//
	return newLattice(arr, p, labels, flats, width, opts)
}
