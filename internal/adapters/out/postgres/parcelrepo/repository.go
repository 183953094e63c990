package parcelrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	uniqueViolationCode      = "23505"
	trackingNumberConstraint = "uq_parcels_tracking_number"
)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraint
}

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new parcel. A duplicate tracking number yields
// parcel.ErrTrackingNumberTaken.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err, trackingNumberConstraint) {
			return fmt.Errorf("add parcel %s: %w", aggregate.TrackingNumber(), parcel.ErrTrackingNumberTaken)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column if the stored version still equals the
// aggregate's version, then bumps both. A lost race yields
// errs.VersionIsInvalidError; a missing row yields errs.ObjectNotFoundError.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1
	dto.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "tracking_number", "customer_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate.ID(), expected)
	}

	aggregate.SetVersion(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *GormParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return r.first(r.locking(ctx), id)
}

func (r *GormParcelRepository) GetByTrackingNumberForUpdate(
	ctx context.Context,
	tn kernel.TrackingNumber,
) (*parcel.Parcel, error) {
	if err := tn.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.locking(ctx).First(&dto, "tracking_number = ?", tn.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingNumber", tn.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// SetCurrentLocation overwrites only the coordinates. The version is left
// alone so a location sample never conflicts with a status change.
func (r *GormParcelRepository) SetCurrentLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint) error {
	if err := errors.Join(id.Validate(), point.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"current_lat": point.Lat(),
			"current_lng": point.Lng(),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("parcel", id.String())
	}
	return nil
}

func (r *GormParcelRepository) locking(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *GormParcelRepository) first(db *gorm.DB, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormParcelRepository) missOrConflict(ctx context.Context, id kernel.UUID, expected int) error {
	var stored []int
	if err := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("id = ?", id.Bytes()).
		Pluck("version", &stored).Error; err != nil {
		return err
	}

	if len(stored) == 0 {
		return errs.NewObjectNotFoundError("parcel", id.String())
	}

	return errs.NewVersionIsInvalidError("parcel",
		fmt.Errorf("expected version %d, stored version is %d", expected, stored[0]))
}
