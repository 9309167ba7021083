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
package poly

import (
	"math/big"
	"strings"
)

// Univariate is a dense polynomial in one variable with integer coefficients.
// Coefficients are stored in order of increasing degree, without trailing
// zeros, so that an uninitialised (or empty) polynomial corresponds with zero.
// Polynomials are never modified after construction, hence all operations
// return fresh polynomials.
type Univariate struct {
	coeffs []*big.Int
}

// NewUnivariate constructs a polynomial from its coefficients, given in order
// of increasing degree.
func NewUnivariate(coeffs ...int64) *Univariate {
	var ncoeffs = make([]*big.Int, len(coeffs))
	//
	for i, c := range coeffs {
		ncoeffs[i] = big.NewInt(c)
	}
	//
	return normalise(ncoeffs)
}

// FromCoefficients constructs a polynomial from a given set of (big integer)
// coefficients, given in order of increasing degree.  The coefficients are
// copied.
func FromCoefficients(coeffs []*big.Int) *Univariate {
	var ncoeffs = make([]*big.Int, len(coeffs))
	//
	for i, c := range coeffs {
		ncoeffs[i] = new(big.Int).Set(c)
	}
	//
	return normalise(ncoeffs)
}

// Monomial constructs the polynomial c*Y^k.
func Monomial(c int64, k uint) *Univariate {
	var coeffs = make([]*big.Int, k+1)
	//
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	//
	coeffs[k].SetInt64(c)
	//
	return normalise(coeffs)
}

// Degree returns the degree of this polynomial, or -1 for the zero polynomial.
func (p *Univariate) Degree() int {
	return len(p.coeffs) - 1
}

// IsZero checks whether this is the zero polynomial.
func (p *Univariate) IsZero() bool {
	return len(p.coeffs) == 0
}

// Coefficient returns (a copy of) the coefficient of Y^k.
func (p *Univariate) Coefficient(k uint) *big.Int {
	if k >= uint(len(p.coeffs)) {
		return new(big.Int)
	}
	//
	return new(big.Int).Set(p.coeffs[k])
}

// Coefficients returns (copies of) all coefficients in order of increasing
// degree.
func (p *Univariate) Coefficients() []*big.Int {
	var coeffs = make([]*big.Int, len(p.coeffs))
	//
	for i, c := range p.coeffs {
		coeffs[i] = new(big.Int).Set(c)
	}
	//
	return coeffs
}

// Add another polynomial onto this polynomial.
func (p *Univariate) Add(other *Univariate) *Univariate {
	var coeffs = make([]*big.Int, max(len(p.coeffs), len(other.coeffs)))
	//
	for i := range coeffs {
		coeffs[i] = new(big.Int).Add(p.at(i), other.at(i))
	}
	//
	return normalise(coeffs)
}

// Sub another polynomial from this polynomial.
func (p *Univariate) Sub(other *Univariate) *Univariate {
	var coeffs = make([]*big.Int, max(len(p.coeffs), len(other.coeffs)))
	//
	for i := range coeffs {
		coeffs[i] = new(big.Int).Sub(p.at(i), other.at(i))
	}
	//
	return normalise(coeffs)
}

// Mul this polynomial by another polynomial.
func (p *Univariate) Mul(other *Univariate) *Univariate {
	if p.IsZero() || other.IsZero() {
		return &Univariate{}
	}
	//
	var (
		coeffs = make([]*big.Int, len(p.coeffs)+len(other.coeffs)-1)
		tmp    big.Int
	)
	//
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	//
	for i, ith := range p.coeffs {
		for j, jth := range other.coeffs {
			tmp.Mul(ith, jth)
			coeffs[i+j].Add(coeffs[i+j], &tmp)
		}
	}
	//
	return normalise(coeffs)
}

// Scale multiplies every coefficient by a given constant.
func (p *Univariate) Scale(c int64) *Univariate {
	var (
		coeffs = make([]*big.Int, len(p.coeffs))
		factor = big.NewInt(c)
	)
	//
	for i, ith := range p.coeffs {
		coeffs[i] = new(big.Int).Mul(ith, factor)
	}
	//
	return normalise(coeffs)
}

// ShiftUp multiplies this polynomial by Y^k.
func (p *Univariate) ShiftUp(k uint) *Univariate {
	if p.IsZero() {
		return p
	}
	//
	var coeffs = make([]*big.Int, uint(len(p.coeffs))+k)
	//
	for i := range coeffs {
		if uint(i) < k {
			coeffs[i] = new(big.Int)
		} else {
			coeffs[i] = new(big.Int).Set(p.coeffs[uint(i)-k])
		}
	}
	//
	return &Univariate{coeffs}
}

// NegatedReciprocal computes (-Y)^d * p(-Y⁻¹), which is a polynomial whenever d
// is at least the degree of p.  Specifically, the coefficient of Y^k in the
// result is (-1)^k times the coefficient of Y^(d-k) in p.
func (p *Univariate) NegatedReciprocal(d uint) *Univariate {
	if int(d) < p.Degree() {
		panic("reciprocal degree below polynomial degree")
	}
	//
	var coeffs = make([]*big.Int, d+1)
	//
	for k := uint(0); k <= d; k++ {
		coeffs[k] = new(big.Int).Set(p.at(int(d - k)))
		//
		if k%2 == 1 {
			coeffs[k].Neg(coeffs[k])
		}
	}
	//
	return normalise(coeffs)
}

// Eval evaluates this polynomial at a given point using Horner's rule.
func (p *Univariate) Eval(x *big.Int) *big.Int {
	var acc = new(big.Int)
	//
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p.coeffs[i])
	}
	//
	return acc
}

// Equals checks whether two polynomials are identical.
func (p *Univariate) Equals(other *Univariate) bool {
	if len(p.coeffs) != len(other.coeffs) {
		return false
	}
	//
	for i, c := range p.coeffs {
		if c.Cmp(other.coeffs[i]) != 0 {
			return false
		}
	}
	//
	return true
}

// Text returns a readable representation using a given variable name, with
// terms in order of increasing degree (e.g. "1 + 3*Y + Y^2").
func (p *Univariate) Text(variable string) string {
	var builder strings.Builder
	//
	if p.IsZero() {
		return "0"
	}
	//
	first := true
	//
	for i, c := range p.coeffs {
		if c.Sign() == 0 {
			continue
		}
		//
		abs := new(big.Int).Abs(c)
		//
		switch {
		case first && c.Sign() < 0:
			builder.WriteString("-")
		case !first && c.Sign() < 0:
			builder.WriteString(" - ")
		case !first:
			builder.WriteString(" + ")
		}
		//
		first = false
		//
		switch {
		case i == 0:
			builder.WriteString(abs.String())
		case abs.IsInt64() && abs.Int64() == 1:
			builder.WriteString(variable)
		default:
			builder.WriteString(abs.String())
			builder.WriteString("*")
			builder.WriteString(variable)
		}
		//
		if i > 1 {
			builder.WriteString("^")
			builder.WriteString(big.NewInt(int64(i)).String())
		}
	}
	//
	return builder.String()
}

func (p *Univariate) String() string {
	return p.Text("Y")
}

func (p *Univariate) at(i int) *big.Int {
	if i < len(p.coeffs) {
		return p.coeffs[i]
	}
	//
	return new(big.Int)
}

// Strip trailing zeros.
func normalise(coeffs []*big.Int) *Univariate {
	n := len(coeffs)
	//
	for n > 0 && coeffs[n-1].Sign() == 0 {
		n--
	}
	//
	return &Univariate{coeffs[:n]}
}
