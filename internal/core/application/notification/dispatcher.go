// Package notification fans a message out to every channel a user accepts.
// Delivery is best effort: failures are logged and counted, never returned.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/user"
)

const defaultSendTimeout = 10 * time.Second

// Channel is one transport, such as email or SMS.
type Channel interface {
	Name() string

	// Address returns the recipient's contact value for this channel, or ""
	// when the user has none.
	Address(u *user.User) string

	// Accepts reports whether the user's preferences allow this channel.
	Accepts(prefs user.NotificationPreferences) bool

	Send(ctx context.Context, address string, msg intent.Message) error
}

type Result string

const (
	Sent    Result = "sent"
	Skipped Result = "skipped"
	Failed  Result = "failed"
)

// Outcome reports what happened on one channel.
type Outcome struct {
	Channel string
	Result  Result
	Err     error
}

type Dispatcher struct {
	channels    []Channel
	logger      *slog.Logger
	sendTimeout time.Duration
}

func NewDispatcher(logger *slog.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels:    channels,
		logger:      logger.With("component", "NotificationDispatcher"),
		sendTimeout: defaultSendTimeout,
	}
}

// WithSendTimeout bounds every single channel send.
func (d *Dispatcher) WithSendTimeout(timeout time.Duration) *Dispatcher {
	d.sendTimeout = timeout
	return d
}

// Notify implements ports.Notifier.
func (d *Dispatcher) Notify(ctx context.Context, recipient *user.User, msg intent.Message) {
	d.Dispatch(ctx, recipient, msg)
}

// Dispatch sends msg on every eligible channel concurrently and waits for all
// of them. Outcomes are in channel registration order.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient *user.User, msg intent.Message) []Outcome {
	outcomes := make([]Outcome, len(d.channels))
	if recipient.Validate() != nil {
		for i, ch := range d.channels {
			outcomes[i] = Outcome{Channel: ch.Name(), Result: Skipped}
		}
		return outcomes
	}

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		address := ch.Address(recipient)
		if address == "" || !ch.Accepts(recipient.Preferences()) {
			outcomes[i] = Outcome{Channel: ch.Name(), Result: Skipped}
			notificationsTotal.WithLabelValues(ch.Name(), string(Skipped)).Inc()
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = d.send(ctx, ch, recipient, address, msg)
		}()
	}
	wg.Wait()

	return outcomes
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, recipient *user.User, address string, msg intent.Message) Outcome {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	start := time.Now()
	err := sendRecovered(ctx, ch, address, msg)
	notificationDuration.WithLabelValues(ch.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		notificationsTotal.WithLabelValues(ch.Name(), string(Failed)).Inc()
		d.logger.WarnContext(ctx, "notification failed",
			"channel", ch.Name(),
			"userId", recipient.ID().String(),
			"subject", msg.Subject,
			"error", err,
		)
		return Outcome{Channel: ch.Name(), Result: Failed, Err: err}
	}

	notificationsTotal.WithLabelValues(ch.Name(), string(Sent)).Inc()
	d.logger.DebugContext(ctx, "notification sent", "channel", ch.Name(), "userId", recipient.ID().String())
	return Outcome{Channel: ch.Name(), Result: Sent}
}

// sendRecovered turns a panicking transport into an ordinary send error.
func sendRecovered(ctx context.Context, ch Channel, address string, msg intent.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s channel panicked: %v", ch.Name(), r)
		}
	}()
	return ch.Send(ctx, address, msg)
}
