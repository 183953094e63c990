package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// CompleteDeliveryCommandHandler applies an agent's report to the parcel and
// its delivery run. Prior status and the reporting agent are not checked.
type CompleteDeliveryCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    IntentRunner
	clock      Clock
	lifecycle  services.ParcelLifecycle
}

func NewCompleteDeliveryCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	effects IntentRunner,
	clock Clock,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		lifecycle:  services.NewParcelLifecycle(),
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (res Result, err error) {
	defer func() { observe("complete_delivery", err) }()

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

	out, err := h.lifecycle.CompleteDelivery(cmd.Actor(), p, existing, cmd.Report(), h.clock())
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
