package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrListCustomerParcelsQueryIsNotConstructed = errors.New(
	"ListCustomerParcelsQuery must be created via NewListCustomerParcelsQuery constructor",
)

// ListCustomerParcelsQuery lists everything a customer has booked, newest first.
type ListCustomerParcelsQuery struct {
	customerID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewListCustomerParcelsQuery(customerID kernel.UUID) (ListCustomerParcelsQuery, error) {
	if err := customerID.Validate(); err != nil {
		return ListCustomerParcelsQuery{}, err
	}
	return ListCustomerParcelsQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListCustomerParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListCustomerParcelsQueryIsNotConstructed)
}

func (q ListCustomerParcelsQuery) CustomerID() kernel.UUID { return q.customerID }
