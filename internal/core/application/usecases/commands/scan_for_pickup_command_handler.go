package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// ScanForPickupCommandHandler moves a pending parcel to picked-up.
// The parcel row is locked for the whole transaction and Update is a version
// compare-and-swap, so of two agents scanning the same label at once exactly
// one succeeds; the other sees the new status and is rejected.
type ScanForPickupCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    IntentRunner
	clock      Clock
	lifecycle  services.ParcelLifecycle
}

func NewScanForPickupCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	effects IntentRunner,
	clock Clock,
) ScanForPickupCommandHandler {
	return ScanForPickupCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		lifecycle:  services.NewParcelLifecycle(),
	}
}

func (h ScanForPickupCommandHandler) Handle(ctx context.Context, cmd ScanParcelCommand) (res Result, err error) {
	defer func() { observe("scan_pickup", err) }()

	if err = cmd.Validate(); err != nil {
		return Result{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcels := uow.ParcelRepository()
	deliveries := uow.DeliveryRepository()

	p, err := parcels.GetByTrackingNumberForUpdate(ctx, cmd.TrackingNumber())
	if err != nil {
		return Result{}, err
	}

	existing, err := deliveries.FindByParcel(ctx, p.ID())
	if err != nil {
		return Result{}, err
	}

	customer, err := loadRecipient(ctx, uow.UserRepository(), p.CustomerID())
	if err != nil {
		return Result{}, err
	}

	out, err := h.lifecycle.ScanForPickup(cmd.Actor(), p, existing, customer, cmd.ScannedData(), h.clock())
	if err != nil {
		return Result{}, err
	}

	if err = parcels.Update(ctx, out.Parcel); err != nil {
		return Result{}, err
	}
	if err = saveDelivery(ctx, deliveries, out); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.effects.Run(ctx, out.Intents)
	return Result{Parcel: out.Parcel, Delivery: out.Delivery}, nil
}
