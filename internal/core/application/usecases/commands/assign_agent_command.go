package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand is an admin binding an agent to a parcel.
type AssignAgentCommand struct { //nolint:recvcheck //using for validation
	actor    user.Actor
	parcelID kernel.UUID
	agentID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignAgentCommand(actor user.Actor, parcelID, agentID kernel.UUID) (AssignAgentCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		parcelID.Validate(),
		agentID.Validate(),
	); err != nil {
		return AssignAgentCommand{}, err
	}

	return AssignAgentCommand{
		actor:    actor,
		parcelID: parcelID,
		agentID:  agentID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

func (c AssignAgentCommand) Actor() user.Actor     { return c.actor }
func (c AssignAgentCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c AssignAgentCommand) AgentID() kernel.UUID  { return c.agentID }
