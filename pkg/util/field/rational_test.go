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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Rational_01(t *testing.T) {
	var zero Rational
	//
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsOne())
	assert.True(t, One[Rational]().IsOne())
	assert.Equal(t, "0", zero.String())
}

func Test_Rational_02(t *testing.T) {
	half := NewRational(1, 2)
	third := NewRational(1, 3)
	//
	assert.Equal(t, "5/6", half.Add(third).String())
	assert.Equal(t, "1/6", half.Sub(third).String())
	assert.Equal(t, "1/6", half.Mul(third).String())
	assert.Equal(t, "-1/2", half.Neg().String())
	assert.Equal(t, "3", third.Inverse().String())
	assert.True(t, half.Mul(half.Inverse()).IsOne())
}

func Test_Rational_03(t *testing.T) {
	var zero Rational
	// Inverse of zero is defined as zero.
	assert.True(t, zero.Inverse().IsZero())
	assert.True(t, Div(One[Rational](), zero).IsZero())
}

func Test_Rational_04(t *testing.T) {
	for _, text := range []string{"0", "7", "-12", "3/4", "-5/9"} {
		val, err := Parse[Rational](text)
		require.NoError(t, err)
		assert.Equal(t, text, val.Text(10))
	}
	// Reduced on input
	val, err := Parse[Rational]("6/8")
	require.NoError(t, err)
	assert.Equal(t, "3/4", val.String())
	//
	_, err = Parse[Rational]("x/2")
	assert.Error(t, err)
}

func Test_Rational_05(t *testing.T) {
	a := Int64[Rational](3)
	b := NewRational(6, 2)
	//
	assert.True(t, a.Equals(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.Equal(t, -1, NewRational(1, 3).Cmp(NewRational(1, 2)))
	assert.Equal(t, HashVector([]Rational{a}), HashVector([]Rational{b}))
}

func Test_Rational_06(t *testing.T) {
	two := Int64[Rational](2)
	//
	assert.Equal(t, "1024", Pow(two, 10).String())
	assert.True(t, Pow(two, 0).IsOne())
	assert.Equal(t, "1/8", Pow(NewRational(1, 2), 3).String())
}

func Test_Rational_07(t *testing.T) {
	lhs := Int64s[Rational](1, 0, -2)
	rhs := []Rational{NewRational(2, 2), {}, NewRational(-4, 2)}
	//
	assert.True(t, EqualVectors(lhs, rhs))
	assert.False(t, IsZeroVector(lhs))
	assert.True(t, IsZeroVector(make([]Rational, 3)))
	assert.Equal(t, "(1, 0, -2)", VectorString(lhs))
}
