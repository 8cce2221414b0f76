// Package metrics exposes pipeline counters on a caller-supplied Prometheus
// registry. The pipeline itself never serves an HTTP exposition endpoint;
// the embedding process owns the registry and decides how to publish it.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	EventsNormalized prometheus.Counter
	EventsValid      prometheus.Counter
	EventsRejected   *prometheus.CounterVec
	DuplicateEvents  prometheus.Counter
	PreviouslySeen   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_canon_events_normalized_total",
			Help: "Raw events normalized into the canonical schema.",
		}),
		EventsValid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_canon_events_valid_total",
			Help: "Normalized events that passed hard validation.",
		}),
		EventsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_canon_events_rejected_total",
			Help: "Normalized events rejected by hard validation, by reason.",
		}, []string{"reason"}),
		DuplicateEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_canon_duplicate_events_total",
			Help: "Valid events that shared a content hash with another event in the same batch.",
		}),
		PreviouslySeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_canon_previously_seen_events_total",
			Help: "Valid events whose content hash was already in the seen-hash store.",
		}),
	}

	reg.MustRegister(
		m.EventsNormalized,
		m.EventsValid,
		m.EventsRejected,
		m.DuplicateEvents,
		m.PreviouslySeen,
	)

	return m
}
