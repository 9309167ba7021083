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
package bit

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/util/collection/hash"
	"github.com/stretchr/testify/assert"
)

func Test_BitSet_01(t *testing.T) {
	// Differing lengths, same contents
	lhs := bitset.New(3).Set(1)
	rhs := bitset.New(200).Set(1)
	//
	assert.True(t, Equal(lhs, rhs))
	assert.Equal(t, Hash(lhs), Hash(rhs))
	assert.True(t, Subset(lhs, rhs))
	assert.False(t, StrictSubset(lhs, rhs))
}

func Test_BitSet_02(t *testing.T) {
	lhs := Of(0, 2)
	rhs := Of(0, 1, 2)
	//
	assert.False(t, Equal(lhs, rhs))
	assert.True(t, Subset(lhs, rhs))
	assert.True(t, StrictSubset(lhs, rhs))
	assert.False(t, Subset(rhs, lhs))
}

func Test_BitSet_03(t *testing.T) {
	set := Of(0, 3, 4)
	// Drop 3, swap 0 and 4
	mapped := Remap(set, []int{2, 1, 0, -1, 0})
	//
	assert.Equal(t, []uint{0, 2}, Indices(mapped))
	assert.Equal(t, "{0,2}", String(mapped))
	assert.Equal(t, "{}", String(bitset.New(0)))
}

func Test_BitSet_04(t *testing.T) {
	m := hash.NewMap[Key, int](0)
	//
	m.Insert(NewKey(Of(1, 2)), 1)
	m.Insert(NewKey(Range(3)), 2)
	//
	v, ok := m.Get(NewKey(bitset.New(64).Set(2).Set(1)))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, m.ContainsKey(NewKey(Of(0, 1, 2))))
	assert.False(t, m.ContainsKey(NewKey(Of(0))))
}
