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
package affine

import (
	"fmt"
	"strings"

	"github.com/consensys/go-flats/pkg/util/collection/hash"
	"github.com/consensys/go-flats/pkg/util/field"
)

// Subspace represents a nonempty affine subspace of Kⁿ in canonical form.  The
// subspace is the solution set of a system of linear equations a·v + c = 0,
// held as the rows [a | c] of a matrix in reduced row echelon form.  Pivots are
// always coefficient columns (otherwise the system would be inconsistent), and
// each pivot is one.  Since reduced row echelon form is unique, two subspaces
// are equal if and only if their rows are identical.
type Subspace[F field.Element[F]] struct {
	// Dimension of the ambient space.
	n uint
	// Rows of the reduced system, each with n+1 entries.
	rows [][]F
	// Pivot column of each row, in strictly increasing order.
	pivots []uint
}

// Ambient returns the whole of Kⁿ, which is defined by zero equations.
func Ambient[F field.Element[F]](n uint) Subspace[F] {
	return Subspace[F]{n, nil, nil}
}

// FromEquations constructs the affine subspace of Kⁿ satisfying each of the
// given equations, where an equation [a | c] denotes a·v + c = 0.  If the
// system has no solution, then false is returned.
func FromEquations[F field.Element[F]](n uint, equations ...[]F) (Subspace[F], bool) {
	rows := make([][]F, len(equations))
	//
	for i, eq := range equations {
		if uint(len(eq)) != n+1 {
			panic(fmt.Sprintf("equation has %d entries, expected %d", len(eq), n+1))
		}
		//
		rows[i] = cloneRow(eq)
	}
	//
	return reduce(n, rows)
}

// Intersect two affine subspaces of the same ambient space.  If they have no
// point in common, then false is returned.
func (p Subspace[F]) Intersect(other Subspace[F]) (Subspace[F], bool) {
	if p.n != other.n {
		panic(fmt.Sprintf("incompatible ambient dimensions (%d vs %d)", p.n, other.n))
	}
	// Short circuit trivial cases.
	if len(other.rows) == 0 {
		return p, true
	} else if len(p.rows) == 0 {
		return other, true
	}
	//
	rows := make([][]F, 0, len(p.rows)+len(other.rows))
	//
	for _, row := range p.rows {
		rows = append(rows, cloneRow(row))
	}
	//
	for _, row := range other.rows {
		rows = append(rows, cloneRow(row))
	}
	//
	return reduce(p.n, rows)
}

// AmbientDim returns the dimension of the enclosing space.
func (p Subspace[F]) AmbientDim() uint {
	return p.n
}

// Dim returns the dimension of this subspace.
func (p Subspace[F]) Dim() uint {
	return p.n - uint(len(p.rows))
}

// Codim returns the codimension of this subspace.
func (p Subspace[F]) Codim() uint {
	return uint(len(p.rows))
}

// Equations returns the canonical equations defining this subspace.  These
// should not be modified.
func (p Subspace[F]) Equations() [][]F {
	return p.rows
}

// Equals implementation for the hash.Hasher interface.
func (p Subspace[F]) Equals(other Subspace[F]) bool {
	if p.n != other.n || len(p.rows) != len(other.rows) {
		return false
	}
	//
	for i := range p.rows {
		if !field.EqualVectors(p.rows[i], other.rows[i]) {
			return false
		}
	}
	//
	return true
}

// Hash implementation for the hash.Hasher interface.
func (p Subspace[F]) Hash() uint64 {
	hashes := make([]uint64, len(p.rows)+1)
	hashes[0] = uint64(p.n)
	//
	for i, row := range p.rows {
		hashes[i+1] = field.HashVector(row)
	}
	//
	return hash.Combine(hashes...)
}

// Contains checks whether a given point lies within this subspace.
func (p Subspace[F]) Contains(point []F) bool {
	if uint(len(point)) != p.n {
		return false
	}
	//
	for _, row := range p.rows {
		if !evaluate(row, point).IsZero() {
			return false
		}
	}
	//
	return true
}

// Includes checks whether a given subspace is wholly contained within this
// subspace.
func (p Subspace[F]) Includes(other Subspace[F]) bool {
	if r, ok := p.Intersect(other); ok {
		return r.Equals(other)
	}
	//
	return false
}

// Point returns a representative point of this subspace, obtained by setting
// every free variable to zero.
func (p Subspace[F]) Point() []F {
	point := make([]F, p.n)
	//
	for i, row := range p.rows {
		point[p.pivots[i]] = row[p.n].Neg()
	}
	//
	return point
}

// Basis returns a basis for the linear part (i.e. direction space) of this
// subspace.  There is one vector per free variable.
func (p Subspace[F]) Basis() [][]F {
	var (
		basis [][]F
		one   = field.One[F]()
	)
	//
	for _, col := range p.Free() {
		vec := make([]F, p.n)
		vec[col] = one
		//
		for i, row := range p.rows {
			vec[p.pivots[i]] = row[col].Neg()
		}
		//
		basis = append(basis, vec)
	}
	//
	return basis
}

// Free returns the columns which do not hold a pivot (i.e. the free variables).
func (p Subspace[F]) Free() []uint {
	var (
		free []uint
		j    = 0
	)
	//
	for col := range p.n {
		if j < len(p.pivots) && p.pivots[j] == col {
			j++
		} else {
			free = append(free, col)
		}
	}
	//
	return free
}

func (p Subspace[F]) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, row := range p.rows {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(equationString(row))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// Rank returns the rank of a given matrix, which is always exact.
func Rank[F field.Element[F]](matrix [][]F) uint {
	if len(matrix) == 0 {
		return 0
	}
	// Treat every column as a coefficient column.
	var (
		width = uint(len(matrix[0]))
		rows  = make([][]F, len(matrix))
	)
	//
	for i, row := range matrix {
		rows[i] = append(cloneRow(row), field.Zero[F]())
	}
	//
	r, _ := eliminate(width, rows)
	//
	return uint(r)
}

// ============================================================================
// Helpers
// ============================================================================

// Reduce a system of equations over n variables into canonical form, or return
// false if it is inconsistent.  The given rows are modified in place.
func reduce[F field.Element[F]](n uint, rows [][]F) (Subspace[F], bool) {
	r, pivots := eliminate(n, rows)
	// Any nonzero row below the pivots is of the form 0 = c for c ≠ 0.
	for _, row := range rows[r:] {
		if !row[n].IsZero() {
			return Subspace[F]{}, false
		}
	}
	//
	return Subspace[F]{n, rows[:r], pivots}, true
}

// Eliminate performs Gauss-Jordan elimination over the first n columns, always
// choosing the leftmost available pivot and the first row holding it.  Pivot
// rows are normalised and moved to the top.  Returns the number of pivot rows
// along with their pivot columns.
func eliminate[F field.Element[F]](n uint, rows [][]F) (int, []uint) {
	var (
		r      = 0
		pivots []uint
	)
	//
	for col := uint(0); col < n && r < len(rows); col++ {
		// Find pivot
		k := r
		for k < len(rows) && rows[k][col].IsZero() {
			k++
		}
		//
		if k == len(rows) {
			continue
		}
		// Move pivot row into position
		rows[r], rows[k] = rows[k], rows[r]
		// Normalise
		scaleRow(rows[r], rows[r][col].Inverse())
		// Eliminate column from every other row
		for i := range rows {
			if i != r && !rows[i][col].IsZero() {
				subtractRow(rows[i], rows[r], rows[i][col])
			}
		}
		//
		pivots = append(pivots, col)
		r++
	}
	//
	return r, pivots
}

// row := row * factor
func scaleRow[F field.Element[F]](row []F, factor F) {
	for i := range row {
		row[i] = row[i].Mul(factor)
	}
}

// row := row - factor * other
func subtractRow[F field.Element[F]](row []F, other []F, factor F) {
	for i := range row {
		if !other[i].IsZero() {
			row[i] = row[i].Sub(other[i].Mul(factor))
		}
	}
}

// Evaluate a·v + c for a given equation [a | c].
func evaluate[F field.Element[F]](row []F, point []F) F {
	acc := row[len(point)]
	//
	for i, v := range point {
		acc = acc.Add(row[i].Mul(v))
	}
	//
	return acc
}

func cloneRow[F field.Element[F]](row []F) []F {
	nrow := make([]F, len(row))
	copy(nrow, row)
	//
	return nrow
}

func equationString[F field.Element[F]](row []F) string {
	var (
		builder strings.Builder
		n       = len(row) - 1
		first   = true
	)
	//
	for i := range n {
		if row[i].IsZero() {
			continue
		} else if !first {
			builder.WriteString(" + ")
		}
		//
		first = false
		//
		if !row[i].IsOne() {
			builder.WriteString(row[i].String())
			builder.WriteString("*")
		}
		//
		builder.WriteString(fmt.Sprintf("x%d", i))
	}
	//
	if first {
		builder.WriteString("0")
	}
	//
	if !row[n].IsZero() {
		builder.WriteString(" + ")
		builder.WriteString(row[n].String())
	}
	//
	builder.WriteString(" = 0")
	//
	return builder.String()
}
