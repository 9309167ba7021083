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

	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
)

// ErrEmpty signals an attempt to contract onto the intersection of hyperplanes
// which have no point in common.
var ErrEmpty = errors.New("empty intersection")

// Contraction describes the equations induced on a flat by the remaining rows
// of a coordinate matrix.  The flat is parameterised by its free variables, so
// each induced equation is expressed over those variables only.
type Contraction[F field.Element[F]] struct {
	// Flat onto which the matrix was contracted.
	Flat Subspace[F]
	// Free variables of the flat, which become the coordinates of the induced
	// equations.
	Free []uint
	// Indices of the (non-distinguished) rows which were contracted.
	Indices []uint
	// Induced equations, one for each index, each with len(Free)+1 entries
	// where the last entry is the constant.
	Matrix [][]F
}

// Contract reduces a given coordinate matrix (whose rows are equations [a | c]
// over n variables) onto the flat defined by a distinguished subset of its
// rows.  The distinguished rows are row-reduced using leftmost pivot selection,
// after which every other row has its components along each pivot row
// subtracted (constant included).  What remains is the induced equation in
// terms of the free variables of the flat.  Observe that an induced equation
// may have all coefficients zero: then the original row either contains the
// flat (zero constant) or misses it entirely.
func Contract[F field.Element[F]](n uint, matrix [][]F, rows []uint) (Contraction[F], error) {
	var (
		distinguished = make([][]F, len(rows))
		selected      = make([]bool, len(matrix))
	)
	//
	for i, r := range rows {
		if r >= uint(len(matrix)) {
			panic(fmt.Sprintf("invalid row %d", r))
		}
		//
		distinguished[i] = matrix[r]
		selected[r] = true
	}
	//
	flat, ok := FromEquations(n, distinguished...)
	//
	if !ok {
		return Contraction[F]{}, errors.Wrapf(ErrEmpty, "contracting rows %v", rows)
	}
	//
	var (
		free    = flat.Free()
		indices []uint
		induced [][]F
	)
	//
	for i, row := range matrix {
		if selected[i] {
			continue
		}
		//
		reduced := cloneRow(row)
		//
		for j, pivot := range flat.pivots {
			if !reduced[pivot].IsZero() {
				subtractRow(reduced, flat.rows[j], reduced[pivot])
			}
		}
		// Project onto free columns (and constant)
		nrow := make([]F, len(free)+1)
		//
		for j, col := range free {
			nrow[j] = reduced[col]
		}
		//
		nrow[len(free)] = reduced[n]
		//
		indices = append(indices, uint(i))
		induced = append(induced, nrow)
	}
	//
	return Contraction[F]{flat, free, indices, induced}, nil
}
