// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics records Prometheus metrics for a scoring run. A run is a
// batch job, so metrics are exported once to a node exporter textfile
// instead of being scraped.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"laptudirm.com/x/e3wins/pkg/oracle"
)

// Game outcomes, used as the result label of the games counter.
const (
	Scored      = "scored"
	Skipped     = "skipped"
	Unscoreable = "unscoreable"
)

type Option func(*Manager)

// WithNamespace sets the namespace of every metric.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets the buckets of the query latency histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithConstLabels adds fixed labels, such as the tournament id, to every
// metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(m *Manager) {
		m.labels = labels
	}
}

// Manager owns the metrics of one run on a private registry.
type Manager struct {
	namespace string
	buckets   []float64
	labels    prometheus.Labels

	registry *prometheus.Registry

	games        *prometheus.CounterVec
	queries      *prometheus.CounterVec
	queryLatency prometheus.Histogram
	bestDepth    prometheus.Gauge
	identities   prometheus.Gauge

	best int
}

func New(opts ...Option) *Manager {
	m := &Manager{
		namespace: "e3wins",
		buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.games = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "games_total",
		Help:        "Tournament games processed, by result.",
		ConstLabels: m.labels,
	}, []string{"result"})

	m.queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "oracle",
		Name:        "queries_total",
		Help:        "Oracle queries, by response kind.",
		ConstLabels: m.labels,
	}, []string{"response"})

	m.queryLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "oracle",
		Name:        "query_duration_seconds",
		Help:        "Time taken by the oracle to answer a query.",
		Buckets:     m.buckets,
		ConstLabels: m.labels,
	})

	m.bestDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "best_depth",
		Help:        "Deepest solution depth reached by any game.",
		ConstLabels: m.labels,
	})

	m.identities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "leaderboard_identities",
		Help:        "Identities on the leaderboard.",
		ConstLabels: m.labels,
	})

	m.registry.MustRegister(m.games, m.queries, m.queryLatency, m.bestDepth, m.identities)

	// make every result visible in the export even when zero
	for _, result := range []string{Scored, Skipped, Unscoreable} {
		m.games.WithLabelValues(result)
	}

	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordGame counts a processed game.
func (m *Manager) RecordGame(result string) {
	m.games.WithLabelValues(result).Inc()
}

// RecordDepth raises the best depth gauge if depth exceeds it.
func (m *Manager) RecordDepth(depth int) {
	if depth > m.best {
		m.best = depth
		m.bestDepth.Set(float64(depth))
	}
}

// SetIdentities records the size of the leaderboard.
func (m *Manager) SetIdentities(n int) {
	m.identities.Set(float64(n))
}

// Instrument wraps an oracle so that every query is counted and timed.
func (m *Manager) Instrument(o oracle.Oracle) oracle.Oracle {
	return oracle.Func(func(ctx context.Context, prefix []string) (oracle.Response, error) {
		start := time.Now()
		response, err := o.Query(ctx, prefix)
		m.queryLatency.Observe(time.Since(start).Seconds())

		switch {
		case err != nil:
			m.queries.WithLabelValues("error").Inc()
		default:
			m.queries.WithLabelValues(response.Kind.String()).Inc()
		}

		return response, err
	})
}

// WriteTextfile atomically writes the metrics in the text exposition
// format, for collection by the node exporter.
func (m *Manager) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
