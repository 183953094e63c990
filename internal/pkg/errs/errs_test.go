package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause prints the id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("trackingNumber", "COURIER-1-42")

		assert.Equal(t, "trackingNumber", err.ParamName)
		assert.Equal(t, "object not found: COURIER-1-42", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with cause names the param", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("parcelId", "7f1c", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: parcelId, ID is: 7f1c (cause: record not found)",
			err.Error())
	})
}

func TestValueErrors(t *testing.T) {
	cause := errors.New("bad input")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "invalid",
			err:      errs.NewValueIsInvalidError("parcelType"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: parcelType",
		},
		{
			name:     "invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("status", cause),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: status (cause: bad input)",
		},
		{
			name:     "required",
			err:      errs.NewValueIsRequiredError("scannedData"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: scannedData",
		},
		{
			name:     "required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("signature", cause),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: signature (cause: bad input)",
		},
		{
			name:     "out of range",
			err:      errs.NewValueIsOutOfRangeError("latitude", 95.5, -90, 90),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 95.5 is latitude, min value is -90, max value is 90",
		},
		{
			name:     "out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("weight", -1, 0, 1000, cause),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: -1 is weight, min value is 0, max value is 1000 (cause: bad input)",
		},
		{
			name:     "version",
			err:      errs.NewVersionIsInvalidError("parcel", cause),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: parcel (cause: bad input)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}

	t.Run("out of range keeps values on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "left at\ngate", 0, 10)
		assert.Contains(t, err.Error(), "left at gate")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestPreconditionFailedError(t *testing.T) {
	t.Run("NewPreconditionFailedError", func(t *testing.T) {
		err := errs.NewPreconditionFailedError("parcel", "must be pending to be picked up", "delivered")

		assert.Equal(t, "parcel", err.ParamName)
		assert.Equal(t, "delivered", err.Current)
		require.NoError(t, err.Cause)
		assert.Equal(t,
			"precondition failed: parcel must be pending to be picked up, current is delivered",
			err.Error())
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("NewPreconditionFailedErrorWithCause keeps cause reachable", func(t *testing.T) {
		cause := errors.New("not assigned")
		err := errs.NewPreconditionFailedErrorWithCause("parcel", "belongs to another agent", "", cause)

		assert.Equal(t, "precondition failed: parcel belongs to another agent (cause: not assigned)", err.Error())
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		require.ErrorIs(t, err, cause)
	})

	t.Run("errors.As extracts current state through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("scan: %w", errs.NewPreconditionFailedError("parcel", "wrong status", "pending"))

		var target *errs.PreconditionFailedError
		require.ErrorAs(t, wrapped, &target)
		assert.Equal(t, "pending", target.Current)
	})
}
