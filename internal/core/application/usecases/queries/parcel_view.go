// Package queries holds the read side of the parcel backend. Handlers read
// straight from the tables with raw SQL and never touch the aggregates.
package queries

import (
	"database/sql"
	"time"

	"parceltrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Location is a stored coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// ParcelView is the read model of a parcel. The QR image is left out; it is
// served by GetParcelQRCodeQuery.
type ParcelView struct {
	ID             kernel.UUID
	TrackingNumber string
	CustomerID     kernel.UUID
	AgentID        *kernel.UUID

	PickupAddress   string
	PickupCity      string
	DeliveryAddress string
	DeliveryCity    string

	ParcelType    string
	WeightKg      float64
	PaymentMethod string
	CODAmount     decimal.Decimal
	ShippingCost  decimal.Decimal

	Status          string
	CurrentLocation *Location
	Notes           string

	CreatedAt             time.Time
	UpdatedAt             time.Time
	EstimatedDeliveryDate time.Time
	ActualDeliveryDate    *time.Time
}

const parcelColumns = `
	id,
	tracking_number,
	customer_id,
	agent_id,
	pickup_address,
	pickup_city,
	delivery_address,
	delivery_city,
	parcel_type,
	weight_kg,
	payment_method,
	cod_amount,
	shipping_cost,
	status,
	current_lat,
	current_lng,
	notes,
	created_at,
	updated_at,
	estimated_delivery_date,
	actual_delivery_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcelView(row rowScanner) (ParcelView, error) {
	var (
		v                      ParcelView
		id, customerID         uuid.UUID
		agentID                uuid.NullUUID
		currentLat, currentLng sql.NullFloat64
		actualDelivery         sql.NullTime
	)

	if err := row.Scan(
		&id,
		&v.TrackingNumber,
		&customerID,
		&agentID,
		&v.PickupAddress,
		&v.PickupCity,
		&v.DeliveryAddress,
		&v.DeliveryCity,
		&v.ParcelType,
		&v.WeightKg,
		&v.PaymentMethod,
		&v.CODAmount,
		&v.ShippingCost,
		&v.Status,
		&currentLat,
		&currentLng,
		&v.Notes,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.EstimatedDeliveryDate,
		&actualDelivery,
	); err != nil {
		return ParcelView{}, err
	}

	var err error
	if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return ParcelView{}, err
	}
	if v.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return ParcelView{}, err
	}
	if agentID.Valid {
		agent, agentErr := kernel.UUIDFromBytes(agentID.UUID[:])
		if agentErr != nil {
			return ParcelView{}, agentErr
		}
		v.AgentID = &agent
	}
	if currentLat.Valid && currentLng.Valid {
		v.CurrentLocation = &Location{Lat: currentLat.Float64, Lng: currentLng.Float64}
	}
	if actualDelivery.Valid {
		at := actualDelivery.Time
		v.ActualDeliveryDate = &at
	}

	return v, nil
}

func scanParcelViews(rows *sql.Rows) ([]ParcelView, error) {
	views := make([]ParcelView, 0)
	for rows.Next() {
		v, err := scanParcelView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
