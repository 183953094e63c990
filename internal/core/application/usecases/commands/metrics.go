package commands

import (
	"errors"

	"parceltrack/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "parceltrack",
		Subsystem: "lifecycle",
		Name:      "commands_total",
		Help:      "Lifecycle commands handled, by command and result.",
	},
	[]string{"command", "result"}, // result: ok, rejected, conflict, error
)

func observe(command string, err error) {
	commandsTotal.WithLabelValues(command, resultOf(err)).Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return "conflict"
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrPreconditionFailed),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return "rejected"
	default:
		return "error"
	}
}
