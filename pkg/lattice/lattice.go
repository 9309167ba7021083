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
	"fmt"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/affine"
	"github.com/consensys/go-flats/pkg/arrangement"
	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/collection/hash"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/consensys/go-flats/pkg/util/poly"
	"github.com/pkg/errors"
)

// Lattice is the lattice of flats of a hyperplane arrangement (or matroid).
// Elements are identified by integers in rank order, with the bottom (i.e. the
// ambient space) always being element 0.  Each element is labelled by the
// (maximal) set of hyperplane indices whose intersection it is, and x ≤ y
// holds exactly when label(x) ⊆ label(y).  A lattice is immutable; every
// operation on it constructs a fresh lattice.
//
// A lazy lattice holds only its arrangement, and serves only to drive the
// deletion-restriction recursion for Poincaré polynomials.
type Lattice[F field.Element[F]] struct {
	// Underlying arrangement (or nil if constructed from a matroid or poset).
	arrangement *arrangement.Arrangement[F]
	// Hyperplane for each hyperplane index (empty without an arrangement).
	hyperplanes *immutable.Map[uint, arrangement.Hyperplane[F]]
	// Poset of flats (or nil if lazy).
	poset *poset.Poset
	// Label of each element.
	labels []*bitset.BitSet
	// Maps each label to its element.
	index *hash.Map[bit.Key, uint]
	// Subspace of each flat, where known.
	flats []affine.Subspace[F]
	// Number of hyperplane indices.
	width uint
	// Options inherited by derived lattices.
	opts options
	// Memoised Poincaré polynomial
	poincare struct {
		once  sync.Once
		value *poly.Univariate
		err   error
	}
	// Memoised equivalence classes
	classes struct {
		once  sync.Once
		value []Class[F]
		err   error
	}
}

// Lazy constructs a lazy lattice for a given arrangement.  No flats are
// computed.
func Lazy[F field.Element[F]](arr *arrangement.Arrangement[F], opts ...Option) *Lattice[F] {
	return newLazy(arr, newOptions(opts))
}

func newLazy[F field.Element[F]](arr *arrangement.Arrangement[F], opts options) *Lattice[F] {
	return &Lattice[F]{
		arrangement: arr,
		hyperplanes: hyperplaneMap(arr),
		width:       arr.Len(),
		opts:        opts,
	}
}

// Materialize returns an eager lattice for this lattice, constructing its
// flats when it is lazy.
func (l *Lattice[F]) Materialize() (*Lattice[F], error) {
	if !l.IsLazy() {
		return l, nil
	}
	//
	return fromArrangement(l.arrangement, l.opts)
}

// Derive a lazy lattice for another arrangement, inheriting options.
func (l *Lattice[F]) derive(arr *arrangement.Arrangement[F]) *Lattice[F] {
	return newLazy(arr, l.opts)
}

// Construct a lattice from its parts.  Elements must already be in rank order,
// and labels pairwise distinct.
func newLattice[F field.Element[F]](arr *arrangement.Arrangement[F], p *poset.Poset, labels []*bitset.BitSet,
	flats []affine.Subspace[F], width uint, opts options) (*Lattice[F], error) {
	//
	index := hash.NewMap[bit.Key, uint](uint(len(labels)))
	//
	for i, label := range labels {
		if index.Insert(bit.NewKey(label), uint(i)) {
			return nil, errors.Wrapf(ErrSanity, "label %s is not unique", bit.String(label))
		}
	}
	//
	l := &Lattice[F]{
		arrangement: arr,
		hyperplanes: hyperplaneMap(arr),
		poset:       p,
		labels:      labels,
		index:       index,
		flats:       flats,
		width:       width,
		opts:        opts,
	}
	//
	if opts.cfg.Sanity {
		if err := l.Verify(); err != nil {
			return nil, err
		}
	}
	//
	return l, nil
}

func hyperplaneMap[F field.Element[F]](arr *arrangement.Arrangement[F]) *immutable.Map[uint, arrangement.Hyperplane[F]] {
	builder := immutable.NewMapBuilder[uint, arrangement.Hyperplane[F]](immutable.NewHasher(uint(0)))
	//
	if arr != nil {
		for i, h := range arr.Hyperplanes() {
			builder.Set(uint(i), h)
		}
	}
	//
	return builder.Map()
}

// ============================================================================
// References
// ============================================================================

// Ref identifies an element of a lattice, either directly by its identifier or
// indirectly by its label.
type Ref struct {
	id    uint
	label *bitset.BitSet
}

// ByID refers to the element with a given identifier.
func ByID(id uint) Ref {
	return Ref{id, nil}
}

// ByLabel refers to the element with a given label.
func ByLabel(indices ...uint) Ref {
	return Ref{0, bit.Of(indices...)}
}

// ByLabelSet refers to the element with a given label.
func ByLabelSet(label *bitset.BitSet) Ref {
	return Ref{0, label}
}

func (r Ref) String() string {
	if r.label != nil {
		return fmt.Sprintf("label %s", bit.String(r.label))
	}
	//
	return fmt.Sprintf("element %d", r.id)
}

// Resolve a reference into an element identifier.
func (l *Lattice[F]) Resolve(ref Ref) (uint, error) {
	if l.IsLazy() {
		return 0, ErrLazy
	} else if ref.label != nil {
		if x, ok := l.Find(ref.label); ok {
			return x, nil
		}
	} else if ref.id < l.Size() {
		return ref.id, nil
	}
	//
	return 0, errors.Wrapf(ErrUnknownElement, "%s", ref.String())
}

// ============================================================================
// Queries
// ============================================================================

// IsLazy checks whether this lattice has constructed its poset (or not).
func (l *Lattice[F]) IsLazy() bool {
	return l.poset == nil
}

// Size returns the number of flats, or zero for a lazy lattice.
func (l *Lattice[F]) Size() uint {
	return uint(len(l.labels))
}

// Rank returns the maximum rank of any flat.
func (l *Lattice[F]) Rank() uint {
	if l.IsLazy() {
		return l.arrangement.Rank()
	}
	//
	return l.poset.Height()
}

// RankOf returns the rank of a given element (i.e. the codimension of its
// flat).
func (l *Lattice[F]) RankOf(x uint) uint {
	return l.poset.Rank(x)
}

// Width returns the number of hyperplane indices.
func (l *Lattice[F]) Width() uint {
	return l.width
}

// Bottom returns the element corresponding to the ambient space.
func (l *Lattice[F]) Bottom() uint {
	return 0
}

// Top returns the unique maximal element, which exists exactly when the
// arrangement is central.
func (l *Lattice[F]) Top() (uint, bool) {
	if l.IsLazy() {
		return 0, false
	}
	//
	return l.poset.Top()
}

// Atoms returns the elements of rank one (i.e. the distinct hyperplanes).
func (l *Lattice[F]) Atoms() []uint {
	if l.IsLazy() {
		return nil
	}
	//
	return l.poset.Atoms()
}

// Label returns the set of hyperplane indices labelling a given element.
func (l *Lattice[F]) Label(x uint) *bitset.BitSet {
	return l.labels[x].Clone()
}

// LabelsOfFlats returns the label of every element.
func (l *Lattice[F]) LabelsOfFlats() []*bitset.BitSet {
	labels := make([]*bitset.BitSet, len(l.labels))
	//
	for i, label := range l.labels {
		labels[i] = label.Clone()
	}
	//
	return labels
}

// LabelsOfHyperplanes returns the hyperplane for each hyperplane index.  This
// is empty for lattices without coordinates.
func (l *Lattice[F]) LabelsOfHyperplanes() *immutable.Map[uint, arrangement.Hyperplane[F]] {
	return l.hyperplanes
}

// Find the element with a given label, if it exists.
func (l *Lattice[F]) Find(label *bitset.BitSet) (uint, bool) {
	if l.index == nil {
		return 0, false
	}
	//
	return l.index.Get(bit.NewKey(label))
}

// Arrangement returns the underlying hyperplane arrangement, or nil if there
// are no coordinates.
func (l *Lattice[F]) Arrangement() *arrangement.Arrangement[F] {
	return l.arrangement
}

// Poset returns the poset of flats.
func (l *Lattice[F]) Poset() (*poset.Poset, error) {
	if l.IsLazy() {
		return nil, ErrLazy
	}
	//
	return l.poset, nil
}

// ProperPartPoset returns the poset of flats without its bottom and (if it
// exists) its top.  The original element of each proper element is also
// returned.
func (l *Lattice[F]) ProperPartPoset() (*poset.Poset, []uint, error) {
	if l.IsLazy() {
		return nil, nil, ErrLazy
	}
	//
	elements := l.properPart()
	p, err := l.poset.Subposet(elements)
	//
	return p, elements, err
}

func (l *Lattice[F]) properPart() []uint {
	var (
		elements []uint
		top, ok  = l.poset.Top()
	)
	//
	for x := uint(1); x < l.Size(); x++ {
		if !ok || x != top {
			elements = append(elements, x)
		}
	}
	//
	return elements
}

// Flat returns the affine subspace of a given element, recomputing it from
// the label when necessary.
func (l *Lattice[F]) Flat(ref Ref) (affine.Subspace[F], error) {
	x, err := l.Resolve(ref)
	//
	if err != nil {
		return affine.Subspace[F]{}, err
	} else if l.flats != nil {
		return l.flats[x], nil
	} else if l.arrangement == nil {
		return affine.Subspace[F]{}, ErrNoArrangement
	}
	//
	space, ok := l.arrangement.Intersection(bit.Indices(l.labels[x]))
	//
	if !ok {
		return space, errors.Wrapf(ErrSanity, "%s has empty intersection", ref.String())
	}
	//
	return space, nil
}

// CharacteristicPolynomial returns the characteristic polynomial of the poset
// of flats.
func (l *Lattice[F]) CharacteristicPolynomial() (*poly.Univariate, error) {
	if l.IsLazy() {
		return nil, ErrLazy
	}
	//
	return l.poset.CharacteristicPolynomial(), nil
}

func (l *Lattice[F]) String() string {
	if l.IsLazy() {
		return fmt.Sprintf("Lazy lattice of flats (%d hyperplanes)", l.arrangement.Len())
	}
	//
	return fmt.Sprintf("Lattice of flats (%d elements, rank %d)", l.Size(), l.Rank())
}
