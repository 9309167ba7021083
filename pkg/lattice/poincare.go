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
	"github.com/consensys/go-flats/pkg/config"
	"github.com/consensys/go-flats/pkg/util/poly"
	log "github.com/sirupsen/logrus"
)

// PoincarePolynomial returns the Poincaré polynomial π(Y) = Σ μ(0,x)·(-Y)^rank(x)
// of this lattice.  Lattices of rank at most one are handled directly.
// Otherwise, the deletion-restriction recurrence π(A) = π(A∖H) + Y·π(A/H) is
// used where configured and coordinates are available, falling back to
// (-Y)^d·χ(-1/Y) where χ is the characteristic polynomial of degree d.  The
// result is memoised.
func (l *Lattice[F]) PoincarePolynomial() (*poly.Univariate, error) {
	l.poincare.once.Do(func() {
		l.poincare.value, l.poincare.err = l.computePoincare()
	})
	//
	return l.poincare.value, l.poincare.err
}

func (l *Lattice[F]) computePoincare() (*poly.Univariate, error) {
	switch l.Rank() {
	case 0:
		return poly.NewUnivariate(1), nil
	case 1:
		return poly.NewUnivariate(1, int64(l.countAtoms())), nil
	}
	//
	if l.preferRecursion() {
		p, err := l.deletionRestriction()
		//
		if err == nil {
			return p, nil
		}
		//
		log.Debugf("deletion-restriction failed (%s), using characteristic polynomial", err.Error())
	}
	//
	return l.closedForm()
}

// Count the distinct hyperplanes.
func (l *Lattice[F]) countAtoms() uint {
	if l.IsLazy() {
		simple, _ := l.arrangement.Simplify()
		return simple.Len()
	}
	//
	return uint(len(l.Atoms()))
}

func (l *Lattice[F]) preferRecursion() bool {
	if l.arrangement == nil {
		return false
	}
	//
	switch l.opts.cfg.Poincare {
	case config.PoincareRecursive:
		return true
	case config.PoincareClosed:
		return false
	default:
		return l.IsLazy()
	}
}

// Apply deletion-restriction to the last hyperplane of the simplified
// arrangement.  Duplicates must be removed first, since deleting one of a
// pair of duplicates leaves the lattice unchanged.
func (l *Lattice[F]) deletionRestriction() (*poly.Univariate, error) {
	var (
		simple, _ = l.arrangement.Simplify()
		h         = simple.Len() - 1
		deletion  = l.derive(simple.Delete(h))
	)
	//
	res, _, err := simple.RestrictTo(h)
	//
	if err != nil {
		return nil, err
	}
	//
	restriction := l.derive(res)
	//
	pd, err := deletion.PoincarePolynomial()
	//
	if err != nil {
		return nil, err
	}
	//
	pr, err := restriction.PoincarePolynomial()
	//
	if err != nil {
		return nil, err
	}
	//
	return pd.Add(pr.ShiftUp(1)), nil
}

func (l *Lattice[F]) closedForm() (*poly.Univariate, error) {
	eager, err := l.Materialize()
	//
	if err != nil {
		return nil, err
	}
	//
	p := eager.poset
	chi := p.CharacteristicPolynomial()
	//
	return chi.NegatedReciprocal(p.Height()), nil
}
