package queries

import (
	"context"
	"database/sql"
	"errors"

	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
)

type TrackParcelQueryHandler struct {
	db *gorm.DB
}

func NewTrackParcelQueryHandler(db *gorm.DB) TrackParcelQueryHandler {
	return TrackParcelQueryHandler{db: db}
}

func (h TrackParcelQueryHandler) Handle(ctx context.Context, query TrackParcelQuery) (ParcelView, error) {
	if err := query.Validate(); err != nil {
		return ParcelView{}, err
	}

	tn := query.TrackingNumber().String()
	row := h.db.WithContext(ctx).Raw(
		`SELECT `+parcelColumns+` FROM parcels WHERE tracking_number = ?`, tn,
	).Row()

	v, err := scanParcelView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ParcelView{}, errs.NewObjectNotFoundError("trackingNumber", tn)
	}
	return v, err
}
