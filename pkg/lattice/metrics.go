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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects statistics about lattice construction and classification.
// A nil *Metrics records nothing.
type Metrics struct {
	flats         prometheus.Counter
	rounds        prometheus.Counter
	roundDuration prometheus.Histogram
	isomorphisms  prometheus.Counter
	classes       prometheus.Counter
	verifications prometheus.Counter
}

// NewMetrics creates and registers lattice metrics with a given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	//
	return &Metrics{
		flats: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flats",
			Name:      "discovered_total",
			Help:      "Number of flats discovered during construction.",
		}),
		rounds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flats",
			Name:      "rounds_total",
			Help:      "Number of level-by-level construction rounds.",
		}),
		roundDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flats",
			Name:      "round_duration_seconds",
			Help:      "Duration of each construction round.",
			Buckets:   prometheus.DefBuckets,
		}),
		isomorphisms: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flats",
			Name:      "isomorphism_tests_total",
			Help:      "Number of poset isomorphism tests performed.",
		}),
		classes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flats",
			Name:      "classes_total",
			Help:      "Number of equivalence classes found.",
		}),
		verifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flats",
			Name:      "verifications_total",
			Help:      "Number of lattices self-verified.",
		}),
	}
}

func (m *Metrics) round(flats int, elapsed time.Duration) {
	if m != nil {
		m.rounds.Inc()
		m.flats.Add(float64(flats))
		m.roundDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) isomorphismTests(n int) {
	if m != nil {
		m.isomorphisms.Add(float64(n))
	}
}

func (m *Metrics) classesFound(n int) {
	if m != nil {
		m.classes.Add(float64(n))
	}
}

func (m *Metrics) verified() {
	if m != nil {
		m.verifications.Inc()
	}
}
