/*
Copyright © 2026 the PDep authors.
This file is part of PDep.

PDep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PDep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PDep.  If not, see <http://www.gnu.org/licenses/>.
*/

package pdep

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts estimation activity.
type Metrics struct {
	Estimations   *prometheus.CounterVec
	Fallbacks     prometheus.Counter
	IgnoredRates  prometheus.Counter
	SolverSeconds *prometheus.HistogramVec
}

// NewMetrics creates estimation metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Estimations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdep",
			Name:      "estimations_total",
			Help:      "Network estimations by outcome.",
		}, []string{"outcome"}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdep",
			Name:      "mode_fallbacks_total",
			Help:      "Reservoir state runs repeated with modified strong collision.",
		}),
		IgnoredRates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdep",
			Name:      "ignored_rates_total",
			Help:      "Chebyshev coefficient blocks dropped for zero or non-finite values.",
		}),
		SolverSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pdep",
			Name:      "solver_duration_seconds",
			Help:      "Wall time of solver runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}, []string{"mode"}),
	}
	reg.MustRegister(m.Estimations, m.Fallbacks, m.IgnoredRates, m.SolverSeconds)
	return m
}
