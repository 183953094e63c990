package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// UpdateStatusCommandHandler sets any valid status on a parcel without a
// transition check and mirrors it onto an existing delivery run.
type UpdateStatusCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    IntentRunner
	clock      Clock
	lifecycle  services.ParcelLifecycle
}

func NewUpdateStatusCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	effects IntentRunner,
	clock Clock,
) UpdateStatusCommandHandler {
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		lifecycle:  services.NewParcelLifecycle(),
	}
}

func (h UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (res Result, err error) {
	defer func() { observe("update_status", err) }()

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

	p, err := parcels.GetForUpdate(ctx, cmd.ParcelID())
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

	out, err := h.lifecycle.OverrideStatus(cmd.Actor(), p, existing, customer, cmd.Status(), cmd.Notes(), h.clock())
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
