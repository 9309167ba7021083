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
package field

import (
	"fmt"
)

// An Element of an exact field.  All arithmetic is exact, and elements behave
// as values: no operation modifies its receiver.  The zero value of any
// implementation must represent 0.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Sub x-y
	Sub(y Operand) Operand
	// Mul x*y
	Mul(y Operand) Operand
	// Neg -x
	Neg() Operand
	// Inverse x⁻¹, or 0 if x = 0.
	Inverse() Operand
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.  For fields without
	// a natural order this is any fixed total order consistent with equality.
	Cmp(y Operand) int
	// Equals checks whether x = y.
	Equals(y Operand) bool
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// SetInt64 returns the element corresponding to a given integer.
	SetInt64(v int64) Operand
	// SetString parses the textual form produced by Text(10).
	SetString(s string) (Operand, error)
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetInt64(1)
}

// Int64 constructs a field element from a given int64
func Int64[F Element[F]](val int64) F {
	var element F
	//
	return element.SetInt64(val)
}

// Int64s constructs a vector of field elements from a given set of integers.
func Int64s[F Element[F]](vals ...int64) []F {
	var elements = make([]F, len(vals))
	//
	for i, v := range vals {
		elements[i] = Int64[F](v)
	}
	//
	return elements
}

// Parse constructs a field element from its textual form.
func Parse[F Element[F]](text string) (F, error) {
	var element F
	//
	return element.SetString(text)
}

// Div computes x / y, or 0 if y = 0.
func Div[F Element[F]](x, y F) F {
	return x.Mul(y.Inverse())
}
