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
package lattice

import (
	"github.com/consensys/go-flats/pkg/matroid"
	"github.com/pkg/errors"
)

// ErrUnknownElement signals a reference (by identifier or by label) to
// something which is not an element of the lattice.
var ErrUnknownElement = errors.New("unknown element")

// ErrNotAtom signals an attempt to delete an element which is not an atom.
var ErrNotAtom = errors.New("element is not an atom")

// ErrNoArrangement signals an operation which requires coordinates, applied to
// a lattice which has none.
var ErrNoArrangement = errors.New("lattice has no hyperplane arrangement")

// ErrLazy signals an operation which requires the poset, applied to a lattice
// which has not constructed it.
var ErrLazy = errors.New("lattice is lazy")

// ErrSanity signals a lattice which fails self-verification.
var ErrSanity = errors.New("sanity check failed")

// ErrLoop signals a matroid with a loop, which has no lattice of flats in the
// sense used here.
var ErrLoop = matroid.ErrLoop
