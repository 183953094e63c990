package http

import (
	"errors"
	"log/slog"
	"net/http"

	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx answer. CurrentStatus is set
// when a transition was refused because of the parcel's present state.
type ErrorResponse struct {
	Message       string `json:"message"`
	CurrentStatus string `json:"currentStatus,omitempty"`
}

// statusFor maps an application error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parcel.ErrNotAssignedToAgent),
		errors.Is(err, user.ErrRoleNotAllowed),
		errors.Is(err, queries.ErrNotParcelOwner):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPreconditionFailed),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// fail writes err as an ErrorResponse. Server errors are logged and replaced
// by fallback so storage details never reach the client.
func (s *Server) fail(c echo.Context, err error, fallback string) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), fallback,
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.JSON(status, ErrorResponse{Message: fallback})
	}

	body := ErrorResponse{Message: err.Error()}
	var pre *errs.PreconditionFailedError
	if errors.As(err, &pre) && pre.Current != "" && status == http.StatusBadRequest {
		body.CurrentStatus = pre.Current
	}
	return c.JSON(status, body)
}
