package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// AssignAgentCommandHandler binds an agent to a parcel and opens or hands
// over the parcel's delivery run in one transaction.
//
// Example:
//
//	handler := NewAssignAgentCommandHandler(uowFactory, runner, time.Now)
//	cmd, _ := NewAssignAgentCommand(admin, parcelID, agentID)
//	res, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // parcel or agent does not exist
//	case err != nil:
//	    return err
//	}
//	log.Println(res.Delivery.Status()) // assigned
type AssignAgentCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	effects    IntentRunner
	clock      Clock
	lifecycle  services.ParcelLifecycle
}

func NewAssignAgentCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	effects IntentRunner,
	clock Clock,
) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		lifecycle:  services.NewParcelLifecycle(),
	}
}

func (h AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) (res Result, err error) {
	defer func() { observe("assign_agent", err) }()

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

	agent, err := uow.UserRepository().Get(ctx, cmd.AgentID())
	if err != nil {
		return Result{}, err
	}

	existing, err := deliveries.FindByParcel(ctx, p.ID())
	if err != nil {
		return Result{}, err
	}

	out, err := h.lifecycle.AssignAgent(cmd.Actor(), p, agent, existing, h.clock())
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
