package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parceltrack",
			Subsystem: "notification",
			Name:      "attempts_total",
			Help:      "Notification attempts by channel and result.",
		},
		[]string{"channel", "result"}, // result: sent, skipped, failed
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parceltrack",
			Subsystem: "notification",
			Name:      "send_duration_seconds",
			Help:      "Duration of a single channel send.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"channel"},
	)
)
