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
	"testing"

	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Element_01(t *testing.T) {
	var zero Element
	//
	three := field.Int64[Element](3)
	//
	assert.True(t, zero.IsZero())
	assert.True(t, three.Mul(three.Inverse()).IsOne())
	assert.True(t, three.Add(three.Neg()).IsZero())
	assert.True(t, three.Sub(three).IsZero())
}

func Test_Element_02(t *testing.T) {
	minusOne := field.Int64[Element](-1)
	//
	assert.True(t, minusOne.Add(field.One[Element]()).IsZero())
	//
	parsed, err := field.Parse[Element](minusOne.Text(10))
	require.NoError(t, err)
	assert.True(t, parsed.Equals(minusOne))
}
