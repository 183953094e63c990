package http

import (
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/shopspring/decimal"
)

type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (r *coordinatesRequest) point() (*kernel.GeoPoint, error) {
	if r == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*r.Latitude, *r.Longitude)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type bookParcelRequest struct {
	PickupAddress    string              `json:"pickupAddress" validate:"required"`
	PickupCity       string              `json:"pickupCity" validate:"required"`
	PickupLocation   *coordinatesRequest `json:"pickupLocation" validate:"omitempty"`
	DeliveryAddress  string              `json:"deliveryAddress" validate:"required"`
	DeliveryCity     string              `json:"deliveryCity" validate:"required"`
	DeliveryLocation *coordinatesRequest `json:"deliveryLocation" validate:"omitempty"`
	ParcelType       string              `json:"parcelType" validate:"required"`
	Weight           float64             `json:"weight" validate:"gt=0"`
	PaymentMethod    string              `json:"paymentMethod" validate:"required"`
	CODAmount        decimal.Decimal     `json:"codAmount"`
}

type scanParcelRequest struct {
	ScannedData string `json:"scannedData" validate:"required"`
	Signature   string `json:"signature"`
}

type completeDeliveryRequest struct {
	Status        string   `json:"status" validate:"required"`
	FailureReason string   `json:"failureReason"`
	Signature     string   `json:"signature"`
	Photos        []string `json:"photos"`
}

type assignAgentRequest struct {
	ParcelID string `json:"parcelId" validate:"required,uuid"`
	AgentID  string `json:"agentId" validate:"required,uuid"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type locationResponse struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}

type parcelResponse struct {
	ID                    string            `json:"id"`
	TrackingNumber        string            `json:"trackingNumber"`
	CustomerID            string            `json:"customerId"`
	AgentID               string            `json:"agentId,omitempty"`
	PickupAddress         string            `json:"pickupAddress"`
	PickupCity            string            `json:"pickupCity"`
	DeliveryAddress       string            `json:"deliveryAddress"`
	DeliveryCity          string            `json:"deliveryCity"`
	ParcelType            string            `json:"parcelType"`
	Weight                float64           `json:"weight"`
	PaymentMethod         string            `json:"paymentMethod"`
	CODAmount             decimal.Decimal   `json:"codAmount"`
	ShippingCost          decimal.Decimal   `json:"shippingCost"`
	Status                string            `json:"status"`
	CurrentLocation       *locationResponse `json:"currentLocation,omitempty"`
	Notes                 string            `json:"notes,omitempty"`
	QRCode                string            `json:"qrCode,omitempty"`
	EstimatedDeliveryDate time.Time         `json:"estimatedDeliveryDate"`
	ActualDeliveryDate    *time.Time        `json:"actualDeliveryDate,omitempty"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             *time.Time        `json:"updatedAt,omitempty"`
}

func parcelFromDomain(p *parcel.Parcel) parcelResponse {
	resp := parcelResponse{
		ID:                    p.ID().String(),
		TrackingNumber:        p.TrackingNumber().String(),
		CustomerID:            p.CustomerID().String(),
		PickupAddress:         p.Pickup().Line(),
		PickupCity:            p.Pickup().City(),
		DeliveryAddress:       p.Destination().Line(),
		DeliveryCity:          p.Destination().City(),
		ParcelType:            p.Type().String(),
		Weight:                p.WeightKg(),
		PaymentMethod:         p.PaymentMethod().String(),
		CODAmount:             p.CODAmount(),
		ShippingCost:          p.ShippingCost(),
		Status:                p.Status().String(),
		Notes:                 p.Notes(),
		QRCode:                p.QRCode(),
		EstimatedDeliveryDate: p.EstimatedDeliveryDate(),
		ActualDeliveryDate:    p.ActualDeliveryDate(),
		CreatedAt:             p.CreatedAt(),
	}
	if agentID := p.AgentID(); agentID != nil {
		resp.AgentID = agentID.String()
	}
	if point := p.CurrentLocation(); point != nil {
		resp.CurrentLocation = &locationResponse{Latitude: point.Lat(), Longitude: point.Lng()}
	}
	return resp
}

func parcelFromView(v queries.ParcelView) parcelResponse {
	updatedAt := v.UpdatedAt
	resp := parcelResponse{
		ID:                    v.ID.String(),
		TrackingNumber:        v.TrackingNumber,
		CustomerID:            v.CustomerID.String(),
		PickupAddress:         v.PickupAddress,
		PickupCity:            v.PickupCity,
		DeliveryAddress:       v.DeliveryAddress,
		DeliveryCity:          v.DeliveryCity,
		ParcelType:            v.ParcelType,
		Weight:                v.WeightKg,
		PaymentMethod:         v.PaymentMethod,
		CODAmount:             v.CODAmount,
		ShippingCost:          v.ShippingCost,
		Status:                v.Status,
		Notes:                 v.Notes,
		EstimatedDeliveryDate: v.EstimatedDeliveryDate,
		ActualDeliveryDate:    v.ActualDeliveryDate,
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             &updatedAt,
	}
	if v.AgentID != nil {
		resp.AgentID = v.AgentID.String()
	}
	if v.CurrentLocation != nil {
		resp.CurrentLocation = &locationResponse{Latitude: v.CurrentLocation.Lat, Longitude: v.CurrentLocation.Lng}
	}
	return resp
}

func parcelsFromViews(views []queries.ParcelView) []parcelResponse {
	out := make([]parcelResponse, 0, len(views))
	for _, v := range views {
		out = append(out, parcelFromView(v))
	}
	return out
}

type deliveryResponse struct {
	ID              string             `json:"id"`
	ParcelID        string             `json:"parcelId"`
	AgentID         string             `json:"agentId"`
	Status          string             `json:"status"`
	PickedUpTime    *time.Time         `json:"pickedUpTime,omitempty"`
	DeliveredTime   *time.Time         `json:"deliveredTime,omitempty"`
	FailureReason   string             `json:"failureReason,omitempty"`
	Signature       string             `json:"signature,omitempty"`
	Photos          []string           `json:"photos"`
	CurrentLocation *locationResponse  `json:"currentLocation,omitempty"`
	Route           []locationResponse `json:"route"`
}

func deliveryFromDomain(d *delivery.Delivery) *deliveryResponse {
	if d == nil {
		return nil
	}

	resp := &deliveryResponse{
		ID:            d.ID().String(),
		ParcelID:      d.ParcelID().String(),
		AgentID:       d.AgentID().String(),
		Status:        d.Status().String(),
		PickedUpTime:  d.PickedUpTime(),
		DeliveredTime: d.DeliveredTime(),
		FailureReason: d.FailureReason(),
		Signature:     d.Signature(),
		Photos:        d.Photos(),
		Route:         make([]locationResponse, 0, len(d.Route())),
	}
	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	if current := d.CurrentLocation(); current != nil {
		resp.CurrentLocation = trackPointResponse(*current)
	}
	for _, tp := range d.Route() {
		resp.Route = append(resp.Route, *trackPointResponse(tp))
	}
	return resp
}

func trackPointResponse(tp delivery.TrackPoint) *locationResponse {
	at := tp.RecordedAt
	return &locationResponse{Latitude: tp.Point.Lat(), Longitude: tp.Point.Lng(), RecordedAt: &at}
}

type lifecycleResponse struct {
	Message  string            `json:"message"`
	Parcel   parcelResponse    `json:"parcel"`
	Delivery *deliveryResponse `json:"delivery,omitempty"`
}

func lifecycleFromResult(message string, res commands.Result) lifecycleResponse {
	return lifecycleResponse{
		Message:  message,
		Parcel:   parcelFromDomain(res.Parcel),
		Delivery: deliveryFromDomain(res.Delivery),
	}
}

type parcelEnvelope struct {
	Parcel parcelResponse `json:"parcel"`
}

type parcelsEnvelope struct {
	Parcels []parcelResponse `json:"parcels"`
}

type qrCodeResponse struct {
	TrackingNumber string `json:"trackingNumber"`
	QRCode         string `json:"qrCode"`
}

type messageResponse struct {
	Message string `json:"message"`
}
