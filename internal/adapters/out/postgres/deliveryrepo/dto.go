// Package deliveryrepo persists the delivery run and its GPS route.
package deliveryrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type DeliveryDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ParcelID          uuid.UUID      `gorm:"type:uuid;uniqueIndex:uq_deliveries_parcel_id;not null"`
	AgentID           uuid.UUID      `gorm:"type:uuid;index;not null"`
	Status            string         `gorm:"type:varchar(16)"`
	PickedUpTime      *time.Time
	DeliveredTime     *time.Time
	FailureReason     string
	Signature         string
	Photos            pq.StringArray `gorm:"type:text[]"`
	CurrentLat        *float64
	CurrentLng        *float64
	CurrentRecordedAt *time.Time
	RoutePoints       []RoutePointDTO `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// RoutePointDTO is one GPS sample. Rows are only ever inserted.
type RoutePointDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index;not null"`
	Lat        float64
	Lng        float64
	RecordedAt time.Time
}

func (RoutePointDTO) TableName() string {
	return "delivery_route_points"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	photos := d.Photos()
	if photos == nil {
		photos = []string{}
	}

	dto := DeliveryDTO{
		ID:            d.ID().Bytes(),
		ParcelID:      d.ParcelID().Bytes(),
		AgentID:       d.AgentID().Bytes(),
		Status:        d.Status().String(),
		PickedUpTime:  d.PickedUpTime(),
		DeliveredTime: d.DeliveredTime(),
		FailureReason: d.FailureReason(),
		Signature:     d.Signature(),
		Photos:        pq.StringArray(photos),
	}

	if current := d.CurrentLocation(); current != nil {
		lat, lng, at := current.Point.Lat(), current.Point.Lng(), current.RecordedAt
		dto.CurrentLat, dto.CurrentLng, dto.CurrentRecordedAt = &lat, &lng, &at
	}

	for _, tp := range d.Route() {
		dto.RoutePoints = append(dto.RoutePoints, routePointFromDomain(dto.ID, tp))
	}

	return dto
}

func routePointFromDomain(deliveryID uuid.UUID, tp delivery.TrackPoint) RoutePointDTO {
	return RoutePointDTO{
		DeliveryID: deliveryID,
		Lat:        tp.Point.Lat(),
		Lng:        tp.Point.Lng(),
		RecordedAt: tp.RecordedAt,
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}
	agentID, err := kernel.UUIDFromBytes(dto.AgentID[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	route := make([]delivery.TrackPoint, 0, len(dto.RoutePoints))
	for _, rp := range dto.RoutePoints {
		point, pointErr := kernel.NewGeoPoint(rp.Lat, rp.Lng)
		if pointErr != nil {
			return nil, pointErr
		}
		route = append(route, delivery.TrackPoint{Point: point, RecordedAt: rp.RecordedAt})
	}

	var current *delivery.TrackPoint
	if dto.CurrentLat != nil && dto.CurrentLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLng)
		if pointErr != nil {
			return nil, pointErr
		}
		tp := delivery.TrackPoint{Point: point}
		if dto.CurrentRecordedAt != nil {
			tp.RecordedAt = *dto.CurrentRecordedAt
		}
		current = &tp
	}

	return delivery.RestoreDelivery(delivery.RestoreParams{
		ID:              id,
		ParcelID:        parcelID,
		AgentID:         agentID,
		Status:          status,
		PickedUpTime:    dto.PickedUpTime,
		DeliveredTime:   dto.DeliveredTime,
		FailureReason:   dto.FailureReason,
		Signature:       dto.Signature,
		Photos:          []string(dto.Photos),
		Route:           route,
		CurrentLocation: current,
	})
}
