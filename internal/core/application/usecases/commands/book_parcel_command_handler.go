package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// BookParcelCommandHandler creates a pending parcel with a fresh tracking
// number and its QR image, then notifies the customer and announces the
// booking to live subscribers.
type BookParcelCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	qrEncoder  ports.QREncoder
	effects    IntentRunner
	clock      Clock
	lifecycle  services.ParcelLifecycle
}

func NewBookParcelCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	qrEncoder ports.QREncoder,
	effects IntentRunner,
	clock Clock,
) BookParcelCommandHandler {
	return BookParcelCommandHandler{
		uowFactory: uowFactory,
		qrEncoder:  qrEncoder,
		effects:    effects,
		clock:      clock,
		lifecycle:  services.NewParcelLifecycle(),
	}
}

// maxBookingAttempts bounds retries after a tracking number collision.
const maxBookingAttempts = 3

// Handle retries with a fresh tracking number, in a new transaction, when the
// store reports parcel.ErrTrackingNumberTaken.
func (h BookParcelCommandHandler) Handle(ctx context.Context, cmd BookParcelCommand) (res Result, err error) {
	defer func() { observe("book", err) }()

	if err = cmd.Validate(); err != nil {
		return Result{}, err
	}

	var out services.Outcome
	for attempt := 1; attempt <= maxBookingAttempts; attempt++ {
		out, err = h.book(ctx, cmd)
		if !errors.Is(err, parcel.ErrTrackingNumberTaken) {
			break
		}
	}
	if err != nil {
		return Result{}, err
	}

	h.effects.Run(ctx, out.Intents)
	return Result{Parcel: out.Parcel}, nil
}

func (h BookParcelCommandHandler) book(ctx context.Context, cmd BookParcelCommand) (services.Outcome, error) {
	now := h.clock()
	trackingNumber := kernel.NewTrackingNumber(now)
	qrCode, err := h.qrEncoder.Encode(trackingNumber.String())
	if err != nil {
		return services.Outcome{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return services.Outcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	customer, err := loadRecipient(ctx, uow.UserRepository(), cmd.Actor().ID)
	if err != nil {
		return services.Outcome{}, err
	}

	out, err := h.lifecycle.Book(cmd.Actor(), customer, parcel.Booking{
		ID:             kernel.NewUUID(),
		TrackingNumber: trackingNumber,
		CustomerID:     cmd.Actor().ID,
		Pickup:         cmd.Pickup(),
		Destination:    cmd.Destination(),
		Type:           cmd.Type(),
		WeightKg:       cmd.WeightKg(),
		PaymentMethod:  cmd.PaymentMethod(),
		CODAmount:      cmd.CODAmount(),
		CreatedAt:      now,
	}, qrCode)
	if err != nil {
		return services.Outcome{}, err
	}

	if err = uow.ParcelRepository().Add(ctx, out.Parcel); err != nil {
		return services.Outcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.Outcome{}, err
	}
	return out, nil
}
