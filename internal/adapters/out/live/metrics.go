package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parceltrack",
			Subsystem: "live",
			Name:      "events_published_total",
			Help:      "Events published to live sessions, by scope.",
		},
		[]string{"scope"},
	)

	messagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parceltrack",
			Subsystem: "live",
			Name:      "messages_dropped_total",
			Help:      "Messages dropped because a session buffer was full.",
		},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "parceltrack",
			Subsystem: "live",
			Name:      "active_sessions",
			Help:      "Currently connected live sessions.",
		},
	)

	mirrorFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parceltrack",
			Subsystem: "live",
			Name:      "mirror_failures_total",
			Help:      "Events that could not be mirrored to NATS.",
		},
	)
)
