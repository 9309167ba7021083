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
package poset

import (
	"math/big"
	"slices"

	"github.com/consensys/go-flats/pkg/util/poly"
)

// Mobius returns the Möbius function μ(0,x) for every element x, where 0 is the
// bottom.  Recall μ(0,0) = 1 and μ(0,y) = -Σ μ(0,x) over all x < y.  The
// result is nil if there is no unique bottom.
func (p *Poset) Mobius() []*big.Int {
	bottom, ok := p.Bottom()
	//
	if !ok {
		return nil
	}
	//
	var (
		mu    = make([]*big.Int, p.Size())
		order = make([]uint, p.Size())
	)
	// Ranks strictly increase along chains, so this order is topological.
	for i := range order {
		order[i] = uint(i)
	}
	//
	slices.SortStableFunc(order, func(x, y uint) int {
		return int(p.rank[x]) - int(p.rank[y])
	})
	//
	for _, y := range order {
		if y == bottom {
			mu[y] = big.NewInt(1)
			continue
		}
		//
		acc := new(big.Int)
		//
		for x, ok := p.below[y].NextSet(0); ok; x, ok = p.below[y].NextSet(x + 1) {
			if x != y {
				acc.Add(acc, mu[x])
			}
		}
		//
		mu[y] = acc.Neg(acc)
	}
	//
	return mu
}

// CharacteristicPolynomial returns χ(q) = Σ μ(0,x)·q^(h-rank(x)) where h is the
// height of the poset.  The result is nil if there is no unique bottom.
func (p *Poset) CharacteristicPolynomial() *poly.Univariate {
	mu := p.Mobius()
	//
	if mu == nil {
		return nil
	}
	//
	var (
		height = p.Height()
		coeffs = make([]*big.Int, height+1)
	)
	//
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	//
	for x, m := range mu {
		k := height - p.rank[x]
		coeffs[k].Add(coeffs[k], m)
	}
	//
	return poly.FromCoefficients(coeffs)
}
