package http

import (
	"errors"
	"net/http"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AssignAgent handles POST /api/admin/assign-agent.
func (s *Server) AssignAgent(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error assigning agent")
	}

	var req assignAgentRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err = c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	parcelID, parcelErr := kernel.UUIDFromString(req.ParcelID)
	agentID, agentErr := kernel.UUIDFromString(req.AgentID)
	if err = errors.Join(parcelErr, agentErr); err != nil {
		return s.fail(c, err, "Error assigning agent")
	}

	cmd, err := commands.NewAssignAgentCommand(actor, parcelID, agentID)
	if err != nil {
		return s.fail(c, err, "Error assigning agent")
	}

	res, err := s.handlers.AssignAgent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Error assigning agent")
	}

	return c.JSON(http.StatusOK, lifecycleFromResult("Agent assigned successfully", res))
}
