// Copyright 2025 go-bitonic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bms

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts engine activity.
type Metrics struct {
	stages *prometheus.CounterVec
	swaps  prometheus.Counter
	sorts  prometheus.Counter
}

// NewMetrics creates the engine collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bms",
			Name:      "stages_total",
			Help:      "Stages applied, by stage kind.",
		}, []string{"kind"}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bms",
			Name:      "swaps_total",
			Help:      "Compare-exchange operations that swapped their elements.",
		}),
		sorts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bms",
			Name:      "sorts_total",
			Help:      "Plans run to completion.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.stages, m.swaps, m.sorts)
	}
	return m
}

func (m *Metrics) observeStage(st Stage, swaps int) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(st.Kind.String()).Inc()
	m.swaps.Add(float64(swaps))
}

func (m *Metrics) observeSort() {
	if m == nil {
		return
	}
	m.sorts.Inc()
}
