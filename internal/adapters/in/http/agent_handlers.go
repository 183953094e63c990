package http

import (
	"net/http"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
)

// ListAssignedParcels handles GET /api/agents/assigned.
func (s *Server) ListAssignedParcels(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error fetching parcels")
	}

	query, err := queries.NewListAgentParcelsQuery(actor.ID)
	if err != nil {
		return s.fail(c, err, "Error fetching parcels")
	}

	views, err := s.handlers.ListAgentParcels.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Error fetching parcels")
	}

	return c.JSON(http.StatusOK, parcelsEnvelope{Parcels: parcelsFromViews(views)})
}

// ScanForPickup handles POST /api/agents/scan-pickup.
func (s *Server) ScanForPickup(c echo.Context) error {
	return s.scan(c, s.handlers.ScanForPickup, "Parcel picked up successfully")
}

// ScanForDelivery handles POST /api/agents/scan-delivery.
func (s *Server) ScanForDelivery(c echo.Context) error {
	return s.scan(c, s.handlers.ScanForDelivery, "Parcel delivered successfully")
}

func (s *Server) scan(c echo.Context, handler CommandHandler[commands.ScanParcelCommand], success string) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error scanning parcel")
	}

	var req scanParcelRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err = c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	cmd, err := commands.NewScanParcelCommand(actor, req.ScannedData, req.Signature)
	if err != nil {
		return s.fail(c, err, "Error scanning parcel")
	}

	res, err := handler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Error scanning parcel")
	}

	return c.JSON(http.StatusOK, lifecycleFromResult(success, res))
}

// UpdateLocation handles PATCH /api/agents/:parcelId/location.
func (s *Server) UpdateLocation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error updating location")
	}

	parcelID, err := kernel.UUIDFromString(c.Param("parcelId"))
	if err != nil {
		return s.fail(c, err, "Error updating location")
	}

	var req coordinatesRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err = c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	point, err := req.point()
	if err != nil {
		return s.fail(c, err, "Error updating location")
	}

	cmd, err := commands.NewUpdateLocationCommand(actor, parcelID, *point)
	if err != nil {
		return s.fail(c, err, "Error updating location")
	}

	if _, err = s.handlers.UpdateLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err, "Error updating location")
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Location updated"})
}

// CompleteDelivery handles PATCH /api/agents/:parcelId/complete.
func (s *Server) CompleteDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error completing delivery")
	}

	parcelID, err := kernel.UUIDFromString(c.Param("parcelId"))
	if err != nil {
		return s.fail(c, err, "Error completing delivery")
	}

	var req completeDeliveryRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err = c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	status, err := parcel.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err, "Error completing delivery")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(actor, parcelID, status, req.FailureReason, req.Signature, req.Photos)
	if err != nil {
		return s.fail(c, err, "Error completing delivery")
	}

	res, err := s.handlers.CompleteDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Error completing delivery")
	}

	return c.JSON(http.StatusOK, lifecycleFromResult("Delivery updated", res))
}
