// Package parcelrepo persists the parcel aggregate in the parcels table.
package parcelrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParcelDTO is one row of the parcels table. Status, type and payment method
// are stored by name so the table reads well without the application.
type ParcelDTO struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrackingNumber        string          `gorm:"type:varchar(64);uniqueIndex:uq_parcels_tracking_number;not null"`
	CustomerID            uuid.UUID       `gorm:"type:uuid;index;not null"`
	AgentID               *uuid.UUID      `gorm:"type:uuid;index"`
	Pickup                AddressDTO      `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery              AddressDTO      `gorm:"embedded;embeddedPrefix:delivery_"`
	ParcelType            string          `gorm:"column:parcel_type;type:varchar(32)"`
	WeightKg              float64         `gorm:"column:weight_kg"`
	PaymentMethod         string          `gorm:"column:payment_method;type:varchar(16)"`
	CODAmount             decimal.Decimal `gorm:"column:cod_amount;type:numeric(12,2)"`
	ShippingCost          decimal.Decimal `gorm:"column:shipping_cost;type:numeric(12,2)"`
	Status                string          `gorm:"type:varchar(16);index"`
	CurrentLat            *float64        `gorm:"column:current_lat"`
	CurrentLng            *float64        `gorm:"column:current_lng"`
	EstimatedDeliveryDate time.Time
	ActualDeliveryDate    *time.Time
	Notes                 string
	QRCode                string `gorm:"column:qr_code;type:text"`
	Version               int
	CreatedAt             time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt             time.Time
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

// AddressDTO is embedded twice: once for pickup, once for delivery.
type AddressDTO struct {
	Address string   `gorm:"column:address"`
	City    string   `gorm:"column:city"`
	Lat     *float64 `gorm:"column:lat"`
	Lng     *float64 `gorm:"column:lng"`
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:                    p.ID().Bytes(),
		TrackingNumber:        p.TrackingNumber().String(),
		CustomerID:            p.CustomerID().Bytes(),
		Pickup:                addressFromDomain(p.Pickup()),
		Delivery:              addressFromDomain(p.Destination()),
		ParcelType:            p.Type().String(),
		WeightKg:              p.WeightKg(),
		PaymentMethod:         p.PaymentMethod().String(),
		CODAmount:             p.CODAmount(),
		ShippingCost:          p.ShippingCost(),
		Status:                p.Status().String(),
		EstimatedDeliveryDate: p.EstimatedDeliveryDate(),
		ActualDeliveryDate:    p.ActualDeliveryDate(),
		Notes:                 p.Notes(),
		QRCode:                p.QRCode(),
		Version:               p.Version(),
		CreatedAt:             p.CreatedAt(),
	}

	if id := p.AgentID(); id != nil {
		raw := id.Bytes()
		dto.AgentID = &raw
	}
	if loc := p.CurrentLocation(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.CurrentLat, dto.CurrentLng = &lat, &lng
	}

	return dto
}

func addressFromDomain(a parcel.Address) AddressDTO {
	dto := AddressDTO{Address: a.Line(), City: a.City()}
	if point, ok := a.Point(); ok {
		lat, lng := point.Lat(), point.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	tn, err := kernel.ParseTrackingNumber(dto.TrackingNumber)
	if err != nil {
		return nil, err
	}

	pickup, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	destination, err := addressToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	parcelType, err := parcel.ParseType(dto.ParcelType)
	if err != nil {
		return nil, err
	}
	method, err := parcel.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &aID
	}

	current, err := optionalPoint(dto.CurrentLat, dto.CurrentLng)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcel(parcel.RestoreParams{
		Booking: parcel.Booking{
			ID:             id,
			TrackingNumber: tn,
			CustomerID:     customerID,
			Pickup:         pickup,
			Destination:    destination,
			Type:           parcelType,
			WeightKg:       dto.WeightKg,
			PaymentMethod:  method,
			CODAmount:      dto.CODAmount,
			CreatedAt:      dto.CreatedAt,
		},
		AgentID:               agentID,
		ShippingCost:          dto.ShippingCost,
		Status:                status,
		CurrentLocation:       current,
		EstimatedDeliveryDate: dto.EstimatedDeliveryDate,
		ActualDeliveryDate:    dto.ActualDeliveryDate,
		Notes:                 dto.Notes,
		QRCode:                dto.QRCode,
		Version:               dto.Version,
	})
}

func addressToDomain(dto AddressDTO) (parcel.Address, error) {
	point, err := optionalPoint(dto.Lat, dto.Lng)
	if err != nil {
		return parcel.Address{}, err
	}
	return parcel.NewAddress(dto.Address, dto.City, point)
}

func optionalPoint(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil //nolint:nilnil // absent coordinates
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
