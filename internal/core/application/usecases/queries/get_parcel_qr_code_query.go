package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetParcelQRCodeQueryIsNotConstructed = errors.New(
		"GetParcelQRCodeQuery must be created via NewGetParcelQRCodeQuery constructor",
	)

	// ErrNotParcelOwner is returned when a customer asks for another
	// customer's label.
	ErrNotParcelOwner = errors.New("parcel belongs to another customer")
)

// GetParcelQRCodeQuery fetches the label image. Customers only see their own
// parcels; agents and admins see any.
type GetParcelQRCodeQuery struct {
	actor    user.Actor
	parcelID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetParcelQRCodeQuery(actor user.Actor, parcelID kernel.UUID) (GetParcelQRCodeQuery, error) {
	if err := errors.Join(actor.Validate(), parcelID.Validate()); err != nil {
		return GetParcelQRCodeQuery{}, err
	}
	return GetParcelQRCodeQuery{actor: actor, parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelQRCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQRCodeQueryIsNotConstructed)
}

func (q GetParcelQRCodeQuery) Actor() user.Actor     { return q.actor }
func (q GetParcelQRCodeQuery) ParcelID() kernel.UUID { return q.parcelID }

type GetParcelQRCodeQueryResponse struct {
	TrackingNumber string
	QRCode         string
}
