package queries

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetParcelQRCodeQueryHandler struct {
	db *gorm.DB
}

func NewGetParcelQRCodeQueryHandler(db *gorm.DB) GetParcelQRCodeQueryHandler {
	return GetParcelQRCodeQueryHandler{db: db}
}

// Handle fails with ErrNotParcelOwner for a foreign customer and with
// errs.ErrObjectNotFound when the parcel or its image is missing.
func (h GetParcelQRCodeQueryHandler) Handle(
	ctx context.Context,
	query GetParcelQRCodeQuery,
) (GetParcelQRCodeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelQRCodeQueryResponse{}, err
	}

	var (
		resp       GetParcelQRCodeQueryResponse
		customerID uuid.UUID
	)
	err := h.db.WithContext(ctx).Raw(
		`SELECT tracking_number, qr_code, customer_id FROM parcels WHERE id = ?`,
		query.ParcelID().Bytes(),
	).Row().Scan(&resp.TrackingNumber, &resp.QRCode, &customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return GetParcelQRCodeQueryResponse{}, errs.NewObjectNotFoundError("parcel", query.ParcelID().String())
	}
	if err != nil {
		return GetParcelQRCodeQueryResponse{}, err
	}

	actor := query.Actor()
	if actor.Role == user.Customer && customerID != actor.ID.Bytes() {
		return GetParcelQRCodeQueryResponse{}, ErrNotParcelOwner
	}

	if strings.TrimSpace(resp.QRCode) == "" {
		return GetParcelQRCodeQueryResponse{}, errs.NewObjectNotFoundError("qrCode", query.ParcelID().String())
	}

	return resp, nil
}
