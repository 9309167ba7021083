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
	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util"
)

// Option configures the construction of a lattice.  Options are inherited by
// every lattice derived from it.
type Option func(*options)

type options struct {
	cfg     config.Config
	matcher poset.Matcher
	metrics *Metrics
}

func newOptions(opts []Option) options {
	o := options{cfg: config.Default(), matcher: poset.RefinementMatcher{}}
	//
	for _, opt := range opts {
		opt(&o)
	}
	//
	return o
}

// Number of workers to use.
func (o options) workers() int {
	return util.Workers(o.cfg.Workers)
}

// WithConfig replaces the configuration wholesale.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithWorkers sets the number of workers, where zero means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Workers = n
	}
}

// WithSanityCheck enables (or disables) exhaustive self-verification of each
// constructed lattice.
func WithSanityCheck(enabled bool) Option {
	return func(o *options) {
		o.cfg.Sanity = enabled
	}
}

// WithPoincare selects the strategy used for Poincaré polynomials.
func WithPoincare(strategy string) Option {
	return func(o *options) {
		o.cfg.Poincare = strategy
	}
}

// WithMatcher replaces the poset isomorphism test used for classification.
func WithMatcher(matcher poset.Matcher) Option {
	return func(o *options) {
		o.matcher = matcher
	}
}

// WithMetrics records construction and classification statistics.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}
