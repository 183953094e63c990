package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// UpdateLocationCommandHandler records a GPS sample from the assigned agent.
//
// No transaction is opened: the parcel snapshot, the route append and the
// delivery's current location are three independent statements. Under
// concurrent samples the current location is whichever write landed last,
// which may be older than the newest route entry.
type UpdateLocationCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    IntentRunner
	clock      Clock
	lifecycle  services.ParcelLifecycle
}

func NewUpdateLocationCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	effects IntentRunner,
	clock Clock,
) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		lifecycle:  services.NewParcelLifecycle(),
	}
}

func (h UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (res Result, err error) {
	defer func() { observe("update_location", err) }()

	if err = cmd.Validate(); err != nil {
		return Result{}, err
	}

	uow := h.uowFactory.Create()
	parcels := uow.ParcelRepository()
	deliveries := uow.DeliveryRepository()

	p, err := parcels.Get(ctx, cmd.ParcelID())
	if err != nil {
		return Result{}, err
	}

	existing, err := deliveries.FindByParcel(ctx, p.ID())
	if err != nil {
		return Result{}, err
	}

	out, err := h.lifecycle.UpdateLocation(cmd.Actor(), p, existing, cmd.Point(), h.clock())
	if err != nil {
		return Result{}, err
	}

	if err = parcels.SetCurrentLocation(ctx, p.ID(), cmd.Point()); err != nil {
		return Result{}, err
	}

	if out.RoutePoint != nil {
		if err = deliveries.AppendRoutePoint(ctx, out.Delivery.ID(), *out.RoutePoint); err != nil {
			return Result{}, err
		}
		if err = deliveries.UpdateCurrentLocation(ctx, out.Delivery.ID(), *out.RoutePoint); err != nil {
			return Result{}, err
		}
	}

	h.effects.Run(ctx, out.Intents)
	return Result{Parcel: out.Parcel, Delivery: out.Delivery}, nil
}
