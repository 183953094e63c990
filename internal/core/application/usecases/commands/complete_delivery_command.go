package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand is an agent's closing report for a delivery run.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor    user.Actor
	parcelID kernel.UUID
	report   services.CompletionReport

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(
	actor user.Actor,
	parcelID kernel.UUID,
	status parcel.Status,
	failureReason, signature string,
	photos []string,
) (CompleteDeliveryCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		parcelID.Validate(),
		status.Validate(),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	var kept []string
	for _, ph := range photos {
		if ph = strings.TrimSpace(ph); ph != "" {
			kept = append(kept, ph)
		}
	}

	return CompleteDeliveryCommand{
		actor:    actor,
		parcelID: parcelID,
		report: services.CompletionReport{
			Status:        status,
			FailureReason: strings.TrimSpace(failureReason),
			Signature:     strings.TrimSpace(signature),
			Photos:        kept,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) Actor() user.Actor                 { return c.actor }
func (c CompleteDeliveryCommand) ParcelID() kernel.UUID             { return c.parcelID }
func (c CompleteDeliveryCommand) Report() services.CompletionReport { return c.report }
