package kernel

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// TrackingNumberPrefix starts every generated tracking number.
const TrackingNumberPrefix = "COURIER"

// trackingSuffixSpace bounds the random suffix to 0..9999.
const trackingSuffixSpace = 10000

var ErrTrackingNumberIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking number must be created via NewTrackingNumber or ParseTrackingNumber")

// TrackingNumber is the human readable parcel identifier printed on labels
// and embedded verbatim in the parcel QR code. Uniqueness is enforced by the
// store, not by the generator.
type TrackingNumber struct {
	value string
	guard guard.ConstructorGuard
}

// NewTrackingNumber generates COURIER-<unix millis>-<0..9999> for the given instant.
func NewTrackingNumber(now time.Time) TrackingNumber {
	suffix := rand.IntN(trackingSuffixSpace) //nolint:gosec // not a secret
	return TrackingNumber{
		value: fmt.Sprintf("%s-%d-%d", TrackingNumberPrefix, now.UnixMilli(), suffix),
		guard: guard.NewConstructorGuard(),
	}
}

// ParseTrackingNumber accepts any non-blank value after trimming surrounding
// whitespace. Scanners may add trailing newlines, so lookups always go through here.
func ParseTrackingNumber(s string) (TrackingNumber, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TrackingNumber{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	return TrackingNumber{
		value: trimmed,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (t TrackingNumber) Validate() error {
	return t.guard.Validate(ErrTrackingNumberIsNotConstructed)
}

func (t TrackingNumber) String() string {
	return t.value
}

func (t TrackingNumber) IsEqual(other TrackingNumber) bool {
	return t.value == other.value
}
