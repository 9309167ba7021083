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
package arrangement

import (
	"fmt"
	"strings"

	"github.com/consensys/go-flats/pkg/affine"
	"github.com/consensys/go-flats/pkg/util/collection/hash"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
)

// Arrangement is an ordered list of hyperplanes in Kⁿ.  The index of each
// hyperplane is significant, and duplicate hyperplanes are permitted.
// Arrangements are immutable.
type Arrangement[F field.Element[F]] struct {
	dim         uint
	hyperplanes []Hyperplane[F]
}

// New constructs an arrangement in Kⁿ from zero or more hyperplanes, failing
// if any hyperplane has the wrong dimension.
func New[F field.Element[F]](dim uint, hyperplanes ...Hyperplane[F]) (*Arrangement[F], error) {
	for i, h := range hyperplanes {
		if h.Dim() != dim {
			return nil, errors.Wrapf(ErrDimension, "hyperplane %d has dimension %d, expected %d", i, h.Dim(), dim)
		}
	}
	//
	return &Arrangement[F]{dim, hyperplanes}, nil
}

// FromRows constructs an arrangement in Kⁿ from equations [a | c].
func FromRows[F field.Element[F]](dim uint, rows ...[]F) (*Arrangement[F], error) {
	hyperplanes := make([]Hyperplane[F], len(rows))
	//
	for i, row := range rows {
		h, err := FromRow(row)
		//
		if err != nil {
			return nil, errors.Wrapf(err, "hyperplane %d", i)
		}
		//
		hyperplanes[i] = h
	}
	//
	return New(dim, hyperplanes...)
}

// FromInt64s constructs an arrangement from integer equations [a | c].
func FromInt64s[F field.Element[F]](dim uint, rows ...[]int64) (*Arrangement[F], error) {
	frows := make([][]F, len(rows))
	//
	for i, row := range rows {
		frows[i] = field.Int64s[F](row...)
	}
	//
	return FromRows(dim, frows...)
}

// Dim returns the dimension of the ambient space.
func (p *Arrangement[F]) Dim() uint {
	return p.dim
}

// Len returns the number of hyperplanes in this arrangement.
func (p *Arrangement[F]) Len() uint {
	return uint(len(p.hyperplanes))
}

// Hyperplane returns the ith hyperplane of this arrangement.
func (p *Arrangement[F]) Hyperplane(i uint) Hyperplane[F] {
	return p.hyperplanes[i]
}

// Hyperplanes returns the hyperplanes of this arrangement, which should not be
// modified.
func (p *Arrangement[F]) Hyperplanes() []Hyperplane[F] {
	return p.hyperplanes
}

// Matrix returns the equations [a | c] of every hyperplane, one per row.
func (p *Arrangement[F]) Matrix() [][]F {
	matrix := make([][]F, len(p.hyperplanes))
	//
	for i, h := range p.hyperplanes {
		matrix[i] = h.Row()
	}
	//
	return matrix
}

// Normals returns the normal vectors of every hyperplane, one per row.
func (p *Arrangement[F]) Normals() [][]F {
	normals := make([][]F, len(p.hyperplanes))
	//
	for i, h := range p.hyperplanes {
		normals[i] = h.Coeffs
	}
	//
	return normals
}

// Rank returns the rank of this arrangement, which is the rank of its normal
// vectors.  For a central arrangement, this is the codimension of the
// intersection of all hyperplanes.
func (p *Arrangement[F]) Rank() uint {
	return affine.Rank(p.Normals())
}

// IsCentral checks whether all hyperplanes have a common point.  The empty
// arrangement is central.
func (p *Arrangement[F]) IsCentral() bool {
	_, ok := affine.FromEquations(p.dim, p.Matrix()...)
	//
	return ok
}

// Intersection returns the intersection of the hyperplanes with the given
// indices, or false if they have no common point.  The empty set of indices
// yields the ambient space.
func (p *Arrangement[F]) Intersection(indices []uint) (affine.Subspace[F], bool) {
	rows := make([][]F, len(indices))
	//
	for i, index := range indices {
		rows[i] = p.hyperplanes[index].Row()
	}
	//
	return affine.FromEquations(p.dim, rows...)
}

// Subset returns the arrangement made up of the hyperplanes with the given
// indices, in the given order.
func (p *Arrangement[F]) Subset(indices []uint) *Arrangement[F] {
	hyperplanes := make([]Hyperplane[F], len(indices))
	//
	for i, index := range indices {
		hyperplanes[i] = p.hyperplanes[index]
	}
	//
	return &Arrangement[F]{p.dim, hyperplanes}
}

// Delete returns the arrangement obtained by removing the hyperplanes with the
// given indices.  Remaining hyperplanes retain their relative order.
func (p *Arrangement[F]) Delete(indices ...uint) *Arrangement[F] {
	var (
		removed     = make([]bool, len(p.hyperplanes))
		hyperplanes []Hyperplane[F]
	)
	//
	for _, index := range indices {
		removed[index] = true
	}
	//
	for i, h := range p.hyperplanes {
		if !removed[i] {
			hyperplanes = append(hyperplanes, h)
		}
	}
	//
	return &Arrangement[F]{p.dim, hyperplanes}
}

// Simplify removes duplicate hyperplanes, keeping the first occurrence of each.
// The indices of each group of duplicates are also returned, where the ith
// group corresponds to the ith hyperplane of the result.
func (p *Arrangement[F]) Simplify() (*Arrangement[F], [][]uint) {
	var (
		groups      = hash.NewMap[Hyperplane[F], uint](p.Len())
		hyperplanes []Hyperplane[F]
		indices     [][]uint
	)
	//
	for i, h := range p.hyperplanes {
		if j, ok := groups.Get(h); ok {
			indices[j] = append(indices[j], uint(i))
		} else {
			groups.Insert(h, uint(len(hyperplanes)))
			hyperplanes = append(hyperplanes, h)
			indices = append(indices, []uint{uint(i)})
		}
	}
	//
	return &Arrangement[F]{p.dim, hyperplanes}, indices
}

// Cone returns the central arrangement in K¹⁺ⁿ obtained by homogenising each
// hyperplane a·v + c = 0 into c·t + a·v = 0, where t is a new leading
// coordinate.  The hyperplane at infinity t = 0 is appended last.
func (p *Arrangement[F]) Cone() *Arrangement[F] {
	var (
		hyperplanes = make([]Hyperplane[F], len(p.hyperplanes)+1)
		zero        = field.Zero[F]()
	)
	//
	for i, h := range p.hyperplanes {
		coeffs := make([]F, p.dim+1)
		coeffs[0] = h.Const
		copy(coeffs[1:], h.Coeffs)
		hyperplanes[i] = Hyperplane[F]{coeffs, zero}
	}
	//
	infinity := make([]F, p.dim+1)
	//
	for i := range infinity {
		infinity[i] = zero
	}
	//
	infinity[0] = field.One[F]()
	hyperplanes[len(p.hyperplanes)] = Hyperplane[F]{infinity, zero}
	//
	return &Arrangement[F]{p.dim + 1, hyperplanes}
}

// Restrict returns the arrangement induced on the flat which is the
// intersection of the hyperplanes with the given indices.  Each induced
// hyperplane arises from one or more of the remaining hyperplanes, and these
// groups of original indices are returned alongside (with the ith group
// corresponding to the ith induced hyperplane).  Hyperplanes which contain the
// flat, or miss it entirely, induce nothing.  Groups are ordered by their
// smallest index, and the coordinates of the induced arrangement are the free
// variables of the flat.
func (p *Arrangement[F]) Restrict(indices []uint) (*Arrangement[F], [][]uint, error) {
	contraction, err := affine.Contract(p.dim, p.Matrix(), indices)
	//
	if err != nil {
		return nil, nil, err
	}
	//
	var (
		dim         = uint(len(contraction.Free))
		groups      = hash.NewMap[Hyperplane[F], uint](uint(len(contraction.Indices)))
		hyperplanes []Hyperplane[F]
		members     [][]uint
	)
	//
	for i, row := range contraction.Matrix {
		h, err := FromRow(row)
		// Degenerate rows either contain the flat or miss it
		if err != nil {
			continue
		}
		//
		h = h.Normalise()
		index := contraction.Indices[i]
		//
		if j, ok := groups.Get(h); ok {
			members[j] = append(members[j], index)
		} else {
			groups.Insert(h, uint(len(hyperplanes)))
			hyperplanes = append(hyperplanes, h)
			members = append(members, []uint{index})
		}
	}
	//
	return &Arrangement[F]{dim, hyperplanes}, members, nil
}

// RestrictTo returns the arrangement induced on the ith hyperplane, along with
// the groups of original indices giving rise to each induced hyperplane.
// Duplicates of the ith hyperplane induce nothing.
func (p *Arrangement[F]) RestrictTo(i uint) (*Arrangement[F], [][]uint, error) {
	if i >= p.Len() {
		panic(fmt.Sprintf("invalid hyperplane %d", i))
	}
	//
	return p.Restrict([]uint{i})
}

func (p *Arrangement[F]) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("K^%d[", p.dim))
	//
	for i, h := range p.hyperplanes {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(h.String())
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
