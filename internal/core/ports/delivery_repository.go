package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
)

// DeliveryRepository persists delivery runs. There is at most one per parcel.
type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update writes the run's scalar fields. The route is never rewritten here.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// FindByParcel returns (nil, nil) when the parcel has no run yet.
	FindByParcel(ctx context.Context, parcelID kernel.UUID) (*delivery.Delivery, error)

	// AppendRoutePoint inserts one route sample. Samples are append-only.
	AppendRoutePoint(ctx context.Context, deliveryID kernel.UUID, point delivery.TrackPoint) error

	// UpdateCurrentLocation overwrites the run's current location snapshot.
	UpdateCurrentLocation(ctx context.Context, deliveryID kernel.UUID, point delivery.TrackPoint) error
}
