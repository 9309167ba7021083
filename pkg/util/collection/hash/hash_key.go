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

// Hasher provides a generic definition of a hashing function suitable for use
// within the hashmap.  Observe that hashcodes need not be unique: items with
// identical hashcodes are distinguished using Equals.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Combine mixes a sequence of hashcodes (or other uint64 values) into a single
// hashcode using FNV1a.
func Combine(values ...uint64) uint64 {
	hash := offset64
	//
	for _, c := range values {
		hash ^= c
		hash *= prime64
	}
	//
	return hash
}
