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
package hash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HashMap_01(t *testing.T) {
	items := []uint{1, 2, 3, 4, 3, 2, 1}
	check_HashMap(t, items)
}

func Test_HashMap_02(t *testing.T) {
	check_HashMap(t, randomUints(10, 32))
}

func Test_HashMap_03(t *testing.T) {
	check_HashMap(t, randomUints(1000, 32))
}

func Test_HashMap_04(t *testing.T) {
	check_HashMap(t, randomUints(100000, 1024))
}

func Test_HashMap_05(t *testing.T) {
	// Every key collides, so buckets must separate them.
	hmap := NewMap[collidingKey, int](0)
	//
	for i := range 10 {
		assert.False(t, hmap.Insert(collidingKey{uint(i)}, i))
	}
	//
	assert.True(t, hmap.Insert(collidingKey{3}, 33))
	assert.Equal(t, uint(10), hmap.Size())
	assert.Equal(t, uint(10), hmap.MaxBucket())
	//
	v, ok := hmap.Get(collidingKey{3})
	require.True(t, ok)
	assert.Equal(t, 33, v)
	//
	_, ok = hmap.Get(collidingKey{10})
	assert.False(t, ok)
}

func Test_HashMap_06(t *testing.T) {
	assert.Equal(t, Combine(1, 2), Combine(1, 2))
	assert.NotEqual(t, Combine(1, 2), Combine(2, 1))
}

// ===================================================================
// Test Helpers
// ===================================================================

type testKey struct {
	value uint
}

func (p testKey) Equals(other testKey) bool {
	return p.value == other.value
}

func (p testKey) Hash() uint64 {
	return uint64(p.value)
}

type collidingKey struct {
	value uint
}

func (p collidingKey) Equals(other collidingKey) bool {
	return p.value == other.value
}

func (p collidingKey) Hash() uint64 {
	return 0
}

func randomUints(n uint, m uint) []uint {
	items := make([]uint, n)
	//
	for i := range items {
		items[i] = uint(rand.Intn(int(m)))
	}
	//
	return items
}

func check_HashMap(t *testing.T, items []uint) {
	gmap := initGoMap(items)
	hmap := NewMap[testKey, uint](0)
	// Insert items
	for key, val := range gmap {
		hmap.Insert(testKey{key}, val)
	}
	// Sanity check number of unique items
	require.Equal(t, uint(len(gmap)), hmap.Size())
	// Sanity check containership
	for key, val := range gmap {
		require.True(t, hmap.ContainsKey(testKey{key}))
		//
		v, ok := hmap.Get(testKey{key})
		require.True(t, ok)
		require.Equal(t, val, v)
	}
}

func initGoMap(items []uint) map[uint]uint {
	gmap := make(map[uint]uint)
	//
	for _, v := range items {
		if w, ok := gmap[v]; ok {
			gmap[v] = w + 1
		} else {
			gmap[v] = 1
		}
	}
	//
	return gmap
}
