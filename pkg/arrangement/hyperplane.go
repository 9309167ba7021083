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
	"github.com/consensys/go-flats/pkg/affine"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
)

// ErrDegenerate signals a hyperplane whose normal vector is zero.
var ErrDegenerate = errors.New("degenerate hyperplane")

// ErrDimension signals a hyperplane whose dimension differs from that of its
// enclosing arrangement.
var ErrDimension = errors.New("dimension mismatch")

// Hyperplane represents the set of points v in Kⁿ satisfying a·v + c = 0, for
// some nonzero normal vector a and constant c.
type Hyperplane[F field.Element[F]] struct {
	// Coefficients of the normal vector
	Coeffs []F
	// Constant term
	Const F
}

// NewHyperplane constructs a hyperplane from a given normal vector and
// constant, failing if the normal vector is zero.
func NewHyperplane[F field.Element[F]](coeffs []F, constant F) (Hyperplane[F], error) {
	if field.IsZeroVector(coeffs) {
		return Hyperplane[F]{}, errors.Wrapf(ErrDegenerate, "%s", field.VectorString(coeffs))
	}
	//
	return Hyperplane[F]{coeffs, constant}, nil
}

// FromRow constructs a hyperplane from an equation [a | c].
func FromRow[F field.Element[F]](row []F) (Hyperplane[F], error) {
	if len(row) == 0 {
		return Hyperplane[F]{}, errors.Wrap(ErrDegenerate, "empty equation")
	}
	//
	n := len(row) - 1
	//
	return NewHyperplane(row[:n:n], row[n])
}

// Dim returns the dimension of the ambient space of this hyperplane.
func (p Hyperplane[F]) Dim() uint {
	return uint(len(p.Coeffs))
}

// Row returns the equation [a | c] for this hyperplane.
func (p Hyperplane[F]) Row() []F {
	row := make([]F, len(p.Coeffs)+1)
	copy(row, p.Coeffs)
	row[len(p.Coeffs)] = p.Const
	//
	return row
}

// IsLinear checks whether this hyperplane passes through the origin.
func (p Hyperplane[F]) IsLinear() bool {
	return p.Const.IsZero()
}

// Subspace returns this hyperplane as an affine subspace.
func (p Hyperplane[F]) Subspace() affine.Subspace[F] {
	s, ok := affine.FromEquations(p.Dim(), p.Row())
	//
	if !ok {
		panic("degenerate hyperplane")
	}
	//
	return s
}

// Normalise returns the canonical equation of this hyperplane, scaled so that
// its leading nonzero coefficient is one.  Two hyperplanes are geometrically
// equal exactly when their normalised forms are identical.
func (p Hyperplane[F]) Normalise() Hyperplane[F] {
	var factor F
	//
	for _, c := range p.Coeffs {
		if !c.IsZero() {
			factor = c.Inverse()
			break
		}
	}
	//
	coeffs := make([]F, len(p.Coeffs))
	//
	for i, c := range p.Coeffs {
		coeffs[i] = c.Mul(factor)
	}
	//
	return Hyperplane[F]{coeffs, p.Const.Mul(factor)}
}

// Equals implementation for the hash.Hasher interface.  This is geometric
// equality, so the hyperplanes x = 0 and 2x = 0 are equal.
func (p Hyperplane[F]) Equals(other Hyperplane[F]) bool {
	var (
		lhs = p.Normalise()
		rhs = other.Normalise()
	)
	//
	return field.EqualVectors(lhs.Coeffs, rhs.Coeffs) && lhs.Const.Equals(rhs.Const)
}

// Hash implementation for the hash.Hasher interface.
func (p Hyperplane[F]) Hash() uint64 {
	return field.HashVector(p.Normalise().Row())
}

func (p Hyperplane[F]) String() string {
	return p.Subspace().String()
}
