package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the run together with any route it already carries.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the run's scalar columns. The route is append-only and is
// never rewritten here.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "parcel_id", "created_at", "RoutePoints").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// FindByParcel returns (nil, nil) when the parcel has no delivery run yet.
func (r *GormDeliveryRepository) FindByParcel(ctx context.Context, parcelID kernel.UUID) (*delivery.Delivery, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Preload("RoutePoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at, id")
		}).
		First(&dto, "parcel_id = ?", parcelID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // no run yet is a normal state
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDeliveryRepository) AppendRoutePoint(
	ctx context.Context,
	deliveryID kernel.UUID,
	point delivery.TrackPoint,
) error {
	if err := errors.Join(deliveryID.Validate(), point.Point.Validate()); err != nil {
		return err
	}

	rp := routePointFromDomain(deliveryID.Bytes(), point)
	return r.db.WithContext(ctx).Create(&rp).Error
}

func (r *GormDeliveryRepository) UpdateCurrentLocation(
	ctx context.Context,
	deliveryID kernel.UUID,
	point delivery.TrackPoint,
) error {
	if err := errors.Join(deliveryID.Validate(), point.Point.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ?", deliveryID.Bytes()).
		Updates(map[string]any{
			"current_lat":         point.Point.Lat(),
			"current_lng":         point.Point.Lng(),
			"current_recorded_at": point.RecordedAt,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", deliveryID.String())
	}
	return nil
}
