package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListCustomerParcelsQueryHandler struct {
	db *gorm.DB
}

func NewListCustomerParcelsQueryHandler(db *gorm.DB) ListCustomerParcelsQueryHandler {
	return ListCustomerParcelsQueryHandler{db: db}
}

// Handle returns an empty slice, not nil, for a customer with no parcels.
func (h ListCustomerParcelsQueryHandler) Handle(
	ctx context.Context,
	query ListCustomerParcelsQuery,
) ([]ParcelView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+parcelColumns+`
		FROM parcels
		WHERE customer_id = ?
		ORDER BY created_at DESC, id
	`, query.CustomerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParcelViews(rows)
}
