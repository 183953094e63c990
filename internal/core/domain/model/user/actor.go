package user

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// ErrRoleNotAllowed is the cause carried when an actor's role may not run a command.
var ErrRoleNotAllowed = errors.New("role is not allowed")

// Actor is the verified identity behind a command: who is calling and in which role.
// It is produced by the identity verifier and never trusted from a request body.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

func (a Actor) Validate() error {
	return errors.Join(a.ID.Validate(), a.Role.Validate())
}

// Require fails unless the actor holds one of roles.
func (a Actor) Require(roles ...Role) error {
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return errs.NewPreconditionFailedErrorWithCause(
		"actor", "role is not allowed to perform this action", a.Role.String(), ErrRoleNotAllowed)
}
