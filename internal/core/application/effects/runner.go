// Package effects executes the intents a lifecycle command returns, after
// its transaction has committed.
package effects

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/ports"
)

// Runner publishes events inline and sends notifications in the background.
// A notification never delays or fails the request that caused it.
type Runner struct {
	notifier  ports.Notifier
	publisher ports.EventPublisher
	logger    *slog.Logger
	inflight  sync.WaitGroup
}

func NewRunner(notifier ports.Notifier, publisher ports.EventPublisher, logger *slog.Logger) *Runner {
	return &Runner{
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With("component", "EffectsRunner"),
	}
}

// Run executes intents in order. Notifications are detached from ctx
// cancellation so a finished HTTP request does not abort them.
func (r *Runner) Run(ctx context.Context, intents []intent.Intent) {
	for _, in := range intents {
		switch in := in.(type) {
		case intent.Notify:
			r.inflight.Add(1)
			go func(detached context.Context) {
				defer r.inflight.Done()
				defer func() {
					if p := recover(); p != nil {
						r.logger.Error("notification panicked", "panic", p)
					}
				}()
				r.notifier.Notify(detached, in.Recipient, in.Message)
			}(context.WithoutCancel(ctx))

		case intent.Publish:
			r.publisher.Publish(ctx, in.Event)

		default:
			r.logger.WarnContext(ctx, "unknown intent", "type", fmt.Sprintf("%T", in))
		}
	}
}

// Wait blocks until every background notification has returned.
func (r *Runner) Wait() {
	r.inflight.Wait()
}
