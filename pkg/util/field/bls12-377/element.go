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
package bls12_377

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Element wraps fr.Element to conform
// to the field.Element interface.
type Element struct {
	fr.Element
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res fr.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var elem fr.Element
	//
	elem.Sub(&x.Element, &y.Element)
	//
	return Element{elem}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var elem fr.Element
	//
	elem.Mul(&x.Element, &y.Element)
	//
	return Element{elem}
}

// Neg -x
func (x Element) Neg() Element {
	var elem fr.Element
	//
	elem.Neg(&x.Element)
	//
	return Element{elem}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var elem fr.Element
	//
	elem.Inverse(&x.Element)
	//
	return Element{elem}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Equals implementation for the Element interface.
func (x Element) Equals(y Element) bool {
	return x.Element.Equal(&y.Element)
}

// IsOne implementation for the Element interface
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// IsZero implementation for the Element interface
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// SetInt64 implementation for the Element interface.  Negative values are
// reduced modulo the field order.
func (x Element) SetInt64(v int64) Element {
	var elem fr.Element
	//
	elem.SetInt64(v)
	//
	return Element{elem}
}

// SetString implementation for the Element interface.
func (x Element) SetString(s string) (Element, error) {
	var elem fr.Element
	//
	if _, err := elem.SetString(s); err != nil {
		return Element{}, err
	}
	//
	return Element{elem}, nil
}

func (x Element) String() string {
	return x.Element.String()
}

// Text implementation for the Element interface
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}
