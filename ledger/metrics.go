// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ledgerMetrics struct {
	operations       *prometheus.CounterVec
	votesCast        prometheus.Counter
	candidates       prometheus.Gauge
	registeredVoters prometheus.Gauge
	windowActive     prometheus.Gauge
}

func (l *Ledger) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	l.metrics = &ledgerMetrics{
		operations: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voteledger_operations_total",
				Help: "number of ledger operations, by kind and result code",
			},
			[]string{"kind", "result"},
		),
		votesCast: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "voteledger_votes_cast_total",
			Help: "number of accepted ballots",
		}),
		candidates: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "voteledger_candidates",
			Help: "current number of candidates",
		}),
		registeredVoters: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "voteledger_registered_voters",
			Help: "current number of registered voters",
		}),
		windowActive: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "voteledger_window_active",
			Help: "1 while the voting window flag is set",
		}),
	}
}

func (l *Ledger) observe(kind string, err error) {
	if l.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = ErrorCode(err)
		if result == "" {
			result = "error"
		}
	}
	l.metrics.operations.WithLabelValues(kind, result).Inc()
}

// syncGauges must be called with l.mu held
func (l *Ledger) syncGauges() {
	if l.metrics == nil {
		return
	}
	l.metrics.candidates.Set(float64(len(l.candidates)))
	l.metrics.registeredVoters.Set(float64(len(l.registered)))
	if l.window.Active {
		l.metrics.windowActive.Set(1)
	} else {
		l.metrics.windowActive.Set(0)
	}
}
