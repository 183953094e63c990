package queries

import (
	"context"
	"database/sql"
	"errors"

	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetParcelQueryHandler struct {
	db *gorm.DB
}

func NewGetParcelQueryHandler(db *gorm.DB) GetParcelQueryHandler {
	return GetParcelQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when no parcel has the id.
func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (ParcelView, error) {
	if err := query.Validate(); err != nil {
		return ParcelView{}, err
	}

	row := h.db.WithContext(ctx).Raw(
		`SELECT `+parcelColumns+` FROM parcels WHERE id = ?`,
		query.ParcelID().Bytes(),
	).Row()

	v, err := scanParcelView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ParcelView{}, errs.NewObjectNotFoundError("parcel", query.ParcelID().String())
	}
	return v, err
}
