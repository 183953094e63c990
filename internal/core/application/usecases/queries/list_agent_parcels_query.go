package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrListAgentParcelsQueryIsNotConstructed = errors.New(
	"ListAgentParcelsQuery must be created via NewListAgentParcelsQuery constructor",
)

// ListAgentParcelsQuery lists the parcels bound to an agent in any status,
// most recently touched first.
type ListAgentParcelsQuery struct {
	agentID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewListAgentParcelsQuery(agentID kernel.UUID) (ListAgentParcelsQuery, error) {
	if err := agentID.Validate(); err != nil {
		return ListAgentParcelsQuery{}, err
	}
	return ListAgentParcelsQuery{agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAgentParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListAgentParcelsQueryIsNotConstructed)
}

func (q ListAgentParcelsQuery) AgentID() kernel.UUID { return q.agentID }
