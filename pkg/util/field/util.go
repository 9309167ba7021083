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
	"hash/fnv"
	"slices"
	"strings"
)

// Pow takes a given value to the power n.
func Pow[F Element[F]](val F, n uint64) F {
	if n == 0 {
		val = val.SetInt64(1)
	} else if n > 1 {
		m := n / 2
		// Check for odd case
		if n%2 == 1 {
			tmp := val
			val = Pow(val, m)
			val = val.Mul(val).Mul(tmp)
		} else {
			// Even case is easy
			val = Pow(val, m)
			val = val.Mul(val)
		}
	}
	//
	return val
}

// IsZeroVector checks whether every element of a vector is zero.
func IsZeroVector[F Element[F]](vec []F) bool {
	for _, v := range vec {
		if !v.IsZero() {
			return false
		}
	}
	//
	return true
}

// EqualVectors checks whether two vectors hold the same elements.
func EqualVectors[F Element[F]](lhs []F, rhs []F) bool {
	return slices.EqualFunc(lhs, rhs, func(x, y F) bool { return x.Equals(y) })
}

// HashVector computes a hashcode for a vector from the textual form of its
// elements.  Equal vectors always have equal hashcodes.
func HashVector[F Element[F]](vec []F) uint64 {
	hash := fnv.New64a()
	//
	for _, v := range vec {
		hash.Write([]byte(v.Text(16)))
		hash.Write([]byte{','})
	}
	//
	return hash.Sum64()
}

// VectorString returns a readable representation of a vector.
func VectorString[F Element[F]](vec []F) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, v := range vec {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(v.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
