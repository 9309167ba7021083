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
	"math/big"

	"github.com/pkg/errors"
)

// Rational is an element of the field of rational numbers.  A nil value
// represents zero, and every operation allocates a fresh big.Rat so that values
// can be freely shared between goroutines.
type Rational struct {
	val *big.Rat
}

// NewRational constructs the rational num/den.  This panics if den is zero.
func NewRational(num int64, den int64) Rational {
	if den == 0 {
		panic("zero denominator")
	}
	//
	return Rational{big.NewRat(num, den)}
}

// Rat returns a copy of the underlying rational number.
func (x Rational) Rat() *big.Rat {
	return new(big.Rat).Set(x.rat())
}

func (x Rational) rat() *big.Rat {
	if x.val == nil {
		return new(big.Rat)
	}
	//
	return x.val
}

// Add x + y
func (x Rational) Add(y Rational) Rational {
	return Rational{new(big.Rat).Add(x.rat(), y.rat())}
}

// Sub x - y
func (x Rational) Sub(y Rational) Rational {
	return Rational{new(big.Rat).Sub(x.rat(), y.rat())}
}

// Mul x * y
func (x Rational) Mul(y Rational) Rational {
	return Rational{new(big.Rat).Mul(x.rat(), y.rat())}
}

// Neg -x
func (x Rational) Neg() Rational {
	return Rational{new(big.Rat).Neg(x.rat())}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Rational) Inverse() Rational {
	if x.IsZero() {
		return Rational{}
	}
	//
	return Rational{new(big.Rat).Inv(x.val)}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

// Equals checks whether x = y.
func (x Rational) Equals(y Rational) bool {
	return x.Cmp(y) == 0
}

// IsZero implementation for the Element interface
func (x Rational) IsZero() bool {
	return x.val == nil || x.val.Sign() == 0
}

// IsOne implementation for the Element interface
func (x Rational) IsOne() bool {
	return x.val != nil && x.val.IsInt() && x.val.Num().IsInt64() && x.val.Num().Int64() == 1
}

// SetInt64 implementation for the Element interface
func (x Rational) SetInt64(v int64) Rational {
	return Rational{new(big.Rat).SetInt64(v)}
}

// SetString parses either an integer "a" or a fraction "a/b".
func (x Rational) SetString(s string) (Rational, error) {
	val, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rational{}, errors.Errorf("invalid rational %q", s)
	}
	//
	return Rational{val}, nil
}

// Text returns the numerical value of x in the given base, written as a
// (reduced) fraction whenever x is not an integer.
func (x Rational) Text(base int) string {
	r := x.rat()
	//
	if r.IsInt() {
		return r.Num().Text(base)
	}
	//
	return fmt.Sprintf("%s/%s", r.Num().Text(base), r.Denom().Text(base))
}

func (x Rational) String() string {
	return x.Text(10)
}
