package services

import (
	"errors"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// ErrQRCodeMismatch is the cause attached when scanned QR data does not belong to the parcel.
var ErrQRCodeMismatch = errors.New("invalid QR code")

// VerifyQRCode reports whether scanned data matches the expected token after
// trimming surrounding whitespace on both sides. The token is the plain
// tracking number, so this proves only that the scanner saw that label.
func VerifyQRCode(scanned, expected string) bool {
	s := strings.TrimSpace(scanned)
	return s != "" && s == strings.TrimSpace(expected)
}

func qrMismatchError() error {
	return errs.NewPreconditionFailedErrorWithCause("qrCode", "does not match the parcel", "", ErrQRCodeMismatch)
}
