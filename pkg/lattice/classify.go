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

	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util"
	"github.com/consensys/go-flats/pkg/util/field"
)

// Class is a set of proper elements which are combinatorially equivalent:
// their subarrangements have isomorphic posets, and so do their restrictions.
type Class[F field.Element[F]] struct {
	// Some member of the class.
	Representative uint
	// Number of members of the class.
	Multiplicity uint
	// Lattice of the subarrangement at the representative.
	Subarrangement *Lattice[F]
	// Lattice of the restriction to the representative.
	Restriction *Lattice[F]
}

// Candidate representative during clustering.
type representative struct {
	element uint
	count   uint
	down    *poset.Poset
	up      *poset.Poset
}

// EquivalenceClasses partitions the proper part of this lattice (i.e. every
// element other than the bottom and top) into equivalence classes.  Elements
// are distributed round-robin across workers, each of which clusters its own
// share.  Since two workers can find representatives of the same class, these
// are then clustered again sequentially.  The result is memoised.
func (l *Lattice[F]) EquivalenceClasses() ([]Class[F], error) {
	l.classes.once.Do(func() {
		l.classes.value, l.classes.err = l.computeClasses()
	})
	//
	return l.classes.value, l.classes.err
}

func (l *Lattice[F]) computeClasses() ([]Class[F], error) {
	if l.IsLazy() {
		return nil, ErrLazy
	}
	//
	var (
		stats    = util.NewPerfStats()
		elements = l.properPart()
		workers  = l.opts.workers()
		shares   = util.RoundRobin(len(elements), workers)
	)
	//
	clusters, err := util.ForkJoin(context.Background(), workers, shares,
		func(_ context.Context, share []int) ([]representative, error) {
			var reps []representative
			//
			for _, i := range share {
				r, err := l.newRepresentative(elements[i])
				//
				if err != nil {
					return nil, err
				}
				//
				reps = l.cluster(reps, r)
			}
			//
			return reps, nil
		})
	//
	if err != nil {
		return nil, err
	}
	// Merge sequentially
	var reps []representative
	//
	for _, cluster := range clusters {
		for _, r := range cluster {
			reps = l.cluster(reps, r)
		}
	}
	//
	classes := make([]Class[F], len(reps))
	//
	for i, r := range reps {
		sub, err := l.Subarrangement(ByID(r.element))
		//
		if err != nil {
			return nil, err
		}
		//
		res, err := l.Restriction(ByID(r.element))
		//
		if err != nil {
			return nil, err
		}
		//
		classes[i] = Class[F]{r.element, r.count, sub, res}
	}
	//
	l.opts.metrics.classesFound(len(classes))
	stats.Log(fmt.Sprintf("Classifying %d elements into %d classes", len(elements), len(classes)))
	//
	return classes, nil
}

func (l *Lattice[F]) newRepresentative(x uint) (representative, error) {
	down, err := l.poset.Subposet(poset.Elements(l.poset.DownSet(x)))
	//
	if err != nil {
		return representative{}, err
	}
	//
	up, err := l.poset.Subposet(poset.Elements(l.poset.UpSet(x)))
	//
	if err != nil {
		return representative{}, err
	}
	//
	return representative{x, 1, down, up}, nil
}

// Add a candidate into a list of representatives, either by merging it with
// an equivalent representative or by appending it.
func (l *Lattice[F]) cluster(reps []representative, r representative) []representative {
	var tests int
	//
	defer func() { l.opts.metrics.isomorphismTests(tests) }()
	//
	for i := range reps {
		tests++
		//
		if !l.opts.matcher.Isomorphic(reps[i].down, r.down) {
			continue
		}
		//
		tests++
		//
		if l.opts.matcher.Isomorphic(reps[i].up, r.up) {
			reps[i].count += r.count
			return reps
		}
	}
	//
	return append(reps, r)
}
