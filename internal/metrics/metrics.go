// Package metrics maintains the engine's operation counters. The collectors
// always exist so call sites stay unconditional; they are only exported when
// the caller supplies a Registerer through the options.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the engine's instrumentation.
type Metrics struct {
	Sets             prometheus.Counter
	Gets             prometheus.Counter
	Removes          prometheus.Counter
	Compactions      prometheus.Counter
	UncompactedBytes prometheus.Gauge
}

// New builds the collector set and, when reg is non-nil, registers it.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flint",
			Name:      "sets_total",
			Help:      "Number of set operations durably recorded.",
		}),
		Gets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flint",
			Name:      "gets_total",
			Help:      "Number of get operations served.",
		}),
		Removes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flint",
			Name:      "removes_total",
			Help:      "Number of remove operations durably recorded.",
		}),
		Compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flint",
			Name:      "compactions_total",
			Help:      "Number of completed compaction passes.",
		}),
		UncompactedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flint",
			Name:      "uncompacted_bytes",
			Help:      "Estimated dead bytes awaiting compaction.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Sets, m.Gets, m.Removes, m.Compactions, m.UncompactedBytes)
	}
	return m
}
