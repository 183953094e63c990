// Package qrcode renders parcel tracking numbers as PNG QR images.
package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	dataURIPrefix = "data:image/png;base64,"
	defaultSize   = 300
)

// EncodingError wraps a failure inside the QR library.
type EncodingError struct {
	Cause error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("qr encoding failed: %v", e.Cause)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// Encoder implements ports.QREncoder with the highest error-correction level,
// so a scuffed label still scans.
type Encoder struct {
	size int
}

func NewEncoder() *Encoder {
	return &Encoder{size: defaultSize}
}

// Encode returns token as a data:image/png;base64 URI.
func (e *Encoder) Encode(token string) (string, error) {
	png, err := goqrcode.Encode(token, goqrcode.Highest, e.size)
	if err != nil {
		return "", &EncodingError{Cause: err}
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
