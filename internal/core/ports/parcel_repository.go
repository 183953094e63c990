package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
type ParcelRepository interface {
	// Add persists a newly booked parcel. A duplicate tracking number is an error.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update writes the aggregate if the stored version still equals
	// aggregate.Version(), and bumps it. A lost race yields errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get returns errs.ErrObjectNotFound when no parcel has this id.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetForUpdate is Get with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetByTrackingNumberForUpdate resolves a scanned label and locks the row.
	GetByTrackingNumberForUpdate(ctx context.Context, tn kernel.TrackingNumber) (*parcel.Parcel, error)

	// SetCurrentLocation overwrites only the coordinates snapshot, without a
	// version check, as a standalone statement.
	SetCurrentLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint) error
}
