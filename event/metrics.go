// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type busMetrics struct {
	published   *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	subscribers *prometheus.GaugeVec
}

func newBusMetrics(promRegistry prometheus.Registerer) *busMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &busMetrics{
		published: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voteledger_events_published_total",
				Help: "number of events published, by type",
			},
			[]string{"type"},
		),
		dropped: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voteledger_events_dropped_total",
				Help: "number of event deliveries dropped because a subscriber queue was full",
			},
			[]string{"type"},
		),
		subscribers: promautoFactory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "voteledger_event_subscribers",
				Help: "current number of subscribers, by event type",
			},
			[]string{"type"},
		),
	}
}
