// Package commands contains the parcel lifecycle operations that modify state.
// Every handler follows the same shape: validate the command, load the parcel
// inside a unit of work, let services.ParcelLifecycle decide, persist, commit
// and only then run the returned intents.
package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// IntentRunner executes side effects after a commit.
type IntentRunner interface {
	Run(ctx context.Context, intents []intent.Intent)
}

// Clock returns the current instant. Handlers take one so tests can pin time.
type Clock func() time.Time

// Result is what a lifecycle handler hands back to its caller.
type Result struct {
	Parcel   *parcel.Parcel
	Delivery *delivery.Delivery
}

// loadRecipient returns nil without error when the user is gone or its stored
// row no longer rebuilds into a valid user: either way nobody is notified and
// the transition goes ahead. Only store failures are returned.
func loadRecipient(ctx context.Context, users ports.UserRepository, id kernel.UUID) (*user.User, error) {
	u, err := users.Get(ctx, id)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil, nil
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		slog.WarnContext(ctx, "recipient skipped, stored user is invalid",
			"component", "commands", "userId", id.String(), "error", err)
		return nil, nil
	default:
		return nil, err
	}
}

func saveDelivery(ctx context.Context, deliveries ports.DeliveryRepository, out services.Outcome) error {
	if out.Delivery == nil {
		return nil
	}
	if out.DeliveryCreated {
		return deliveries.Add(ctx, out.Delivery)
	}
	return deliveries.Update(ctx, out.Delivery)
}

func validateActor(actor user.Actor) error {
	if err := actor.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("actor", err)
	}
	return nil
}
