package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// UpdateStatusCommand is the admin override of a parcel's status.
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	actor    user.Actor
	parcelID kernel.UUID
	status   parcel.Status
	notes    string

	guard guard.ConstructorGuard
}

func NewUpdateStatusCommand(actor user.Actor, parcelID kernel.UUID, status parcel.Status, notes string) (UpdateStatusCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		parcelID.Validate(),
		status.Validate(),
	); err != nil {
		return UpdateStatusCommand{}, err
	}

	return UpdateStatusCommand{
		actor:    actor,
		parcelID: parcelID,
		status:   status,
		notes:    strings.TrimSpace(notes),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

func (c UpdateStatusCommand) Actor() user.Actor     { return c.actor }
func (c UpdateStatusCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c UpdateStatusCommand) Status() parcel.Status { return c.status }
func (c UpdateStatusCommand) Notes() string         { return c.notes }
