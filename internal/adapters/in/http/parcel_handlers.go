package http

import (
	"errors"
	"net/http"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/labstack/echo/v4"
)

// BookParcel handles POST /api/parcels/book.
func (s *Server) BookParcel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Booking error")
	}

	var req bookParcelRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err = c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	cmd, err := newBookParcelCommand(actor, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid parcel data: " + err.Error()})
	}

	res, err := s.handlers.BookParcel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Booking error")
	}

	return c.JSON(http.StatusCreated, lifecycleFromResult("Parcel booked successfully", res))
}

func newBookParcelCommand(actor user.Actor, req bookParcelRequest) (commands.BookParcelCommand, error) {
	pickupPoint, pickupErr := req.PickupLocation.point()
	deliveryPoint, deliveryErr := req.DeliveryLocation.point()
	if err := errors.Join(pickupErr, deliveryErr); err != nil {
		return commands.BookParcelCommand{}, err
	}

	pickup, pickupErr := parcel.NewAddress(req.PickupAddress, req.PickupCity, pickupPoint)
	destination, destErr := parcel.NewAddress(req.DeliveryAddress, req.DeliveryCity, deliveryPoint)
	parcelType, typeErr := parcel.ParseType(req.ParcelType)
	method, methodErr := parcel.ParsePaymentMethod(req.PaymentMethod)
	if err := errors.Join(pickupErr, destErr, typeErr, methodErr); err != nil {
		return commands.BookParcelCommand{}, err
	}

	return commands.NewBookParcelCommand(actor, pickup, destination, parcelType, req.Weight, method, req.CODAmount)
}

// ListMyParcels handles GET /api/parcels/my-parcels.
func (s *Server) ListMyParcels(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error fetching parcels")
	}

	query, err := queries.NewListCustomerParcelsQuery(actor.ID)
	if err != nil {
		return s.fail(c, err, "Error fetching parcels")
	}

	views, err := s.handlers.ListCustomerParcels.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Error fetching parcels")
	}

	return c.JSON(http.StatusOK, parcelsEnvelope{Parcels: parcelsFromViews(views)})
}

// GetParcel handles GET /api/parcels/:id.
func (s *Server) GetParcel(c echo.Context) error {
	parcelID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Error fetching parcel")
	}

	query, err := queries.NewGetParcelQuery(parcelID)
	if err != nil {
		return s.fail(c, err, "Error fetching parcel")
	}

	view, err := s.handlers.GetParcel.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Error fetching parcel")
	}

	return c.JSON(http.StatusOK, parcelEnvelope{Parcel: parcelFromView(view)})
}

// TrackParcel handles GET /api/parcels/track/:trackingNumber. No token is required.
func (s *Server) TrackParcel(c echo.Context) error {
	query, err := queries.NewTrackParcelQuery(c.Param("trackingNumber"))
	if err != nil {
		return s.fail(c, err, "Error tracking parcel")
	}

	view, err := s.handlers.TrackParcel.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Error tracking parcel")
	}

	return c.JSON(http.StatusOK, parcelEnvelope{Parcel: parcelFromView(view)})
}

// UpdateParcelStatus handles PATCH /api/parcels/:id/status, the admin override.
func (s *Server) UpdateParcelStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error updating status")
	}

	parcelID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Error updating status")
	}

	var req updateStatusRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
	}
	if err = c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	status, err := parcel.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err, "Error updating status")
	}

	cmd, err := commands.NewUpdateStatusCommand(actor, parcelID, status, req.Notes)
	if err != nil {
		return s.fail(c, err, "Error updating status")
	}

	res, err := s.handlers.UpdateStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Error updating status")
	}

	return c.JSON(http.StatusOK, lifecycleFromResult("Parcel status updated", res))
}

// GetParcelQRCode handles GET /api/parcels/:id/qr-code.
func (s *Server) GetParcelQRCode(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Error fetching QR code")
	}

	parcelID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Error fetching QR code")
	}

	query, err := queries.NewGetParcelQRCodeQuery(actor, parcelID)
	if err != nil {
		return s.fail(c, err, "Error fetching QR code")
	}

	label, err := s.handlers.GetParcelQRCode.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Error fetching QR code")
	}

	return c.JSON(http.StatusOK, qrCodeResponse{TrackingNumber: label.TrackingNumber, QRCode: label.QRCode})
}
