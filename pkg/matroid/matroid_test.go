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
package matroid

import (
	"testing"

	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/stretchr/testify/assert"
)

type Q = field.Rational

func Test_Matroid_01(t *testing.T) {
	// Three coplanar vectors plus one more
	m := NewLinear([][]Q{
		field.Int64s[Q](1, 0, 0),
		field.Int64s[Q](0, 1, 0),
		field.Int64s[Q](1, 1, 0),
		field.Int64s[Q](0, 0, 1),
	})
	//
	assert.Equal(t, uint(4), m.Size())
	assert.Equal(t, uint(3), FullRank(m))
	assert.Equal(t, uint(2), m.Rank(bit.Of(0, 1, 2)))
	assert.Equal(t, []uint{0, 1, 2}, bit.Indices(Closure(m, bit.Of(0, 2))))
	assert.Equal(t, []uint{3}, bit.Indices(Closure(m, bit.Of(3))))
	assert.NoError(t, CheckLoops(m))
}

func Test_Matroid_02(t *testing.T) {
	m := NewLinear([][]Q{
		field.Int64s[Q](1, 0),
		field.Int64s[Q](0, 0),
	})
	//
	assert.ErrorIs(t, CheckLoops(m), ErrLoop)
}

func Test_Matroid_03(t *testing.T) {
	m := NewUniform(2, 4)
	//
	assert.Equal(t, uint(2), FullRank(m))
	assert.Equal(t, uint(1), m.Rank(bit.Of(3)))
	assert.Equal(t, []uint{1}, bit.Indices(Closure(m, bit.Of(1))))
	assert.Equal(t, []uint{0, 1, 2, 3}, bit.Indices(Closure(m, bit.Of(0, 1))))
	assert.NoError(t, CheckLoops(m))
}
