package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var ErrScanParcelCommandIsNotConstructed = errors.New(
	"ScanParcelCommand must be created via NewScanParcelCommand constructor",
)

// ScanParcelCommand carries what an agent's scanner read off a parcel label.
// The same command drives both the pickup and the delivery scan; signature
// is only used on delivery.
type ScanParcelCommand struct { //nolint:recvcheck //using for validation
	actor          user.Actor
	scannedData    string
	trackingNumber kernel.TrackingNumber
	signature      string

	guard guard.ConstructorGuard
}

func NewScanParcelCommand(actor user.Actor, scannedData, signature string) (ScanParcelCommand, error) {
	tn, err := kernel.ParseTrackingNumber(scannedData)
	if err = errors.Join(validateActor(actor), err); err != nil {
		return ScanParcelCommand{}, err
	}

	return ScanParcelCommand{
		actor:          actor,
		scannedData:    scannedData,
		trackingNumber: tn,
		signature:      strings.TrimSpace(signature),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c ScanParcelCommand) Validate() error {
	return c.guard.Validate(ErrScanParcelCommandIsNotConstructed)
}

func (c ScanParcelCommand) Actor() user.Actor { return c.actor }

// ScannedData is the raw scanner payload, untrimmed.
func (c ScanParcelCommand) ScannedData() string { return c.scannedData }

// TrackingNumber is the lookup key derived from the payload.
func (c ScanParcelCommand) TrackingNumber() kernel.TrackingNumber { return c.trackingNumber }

func (c ScanParcelCommand) Signature() string { return c.signature }
