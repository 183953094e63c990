package event

import "time"

type ParcelBookedPayload struct {
	ParcelID       string `json:"parcelId"`
	TrackingNumber string `json:"trackingNumber"`
	PickupCity     string `json:"pickupCity"`
	DeliveryCity   string `json:"deliveryCity"`
	CustomerID     string `json:"customerId"`
}

// AgentAssignedPayload is sent globally and, as AssignmentReceived, to the agent.
type AgentAssignedPayload struct {
	ParcelID       string `json:"parcelId"`
	AgentID        string `json:"agentId"`
	AgentName      string `json:"agentName"`
	TrackingNumber string `json:"trackingNumber"`
	PickupCity     string `json:"pickupCity"`
	DeliveryCity   string `json:"deliveryCity"`
}

type StatusChangedPayload struct {
	ParcelID  string    `json:"parcelId"`
	Status    string    `json:"status"`
	AgentID   string    `json:"agentId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type StatusUpdatedPayload struct {
	ParcelID       string `json:"parcelId"`
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
}

type DeliveryCompletedPayload struct {
	ParcelID       string    `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	AgentID        string    `json:"agentId"`
	CompletedAt    time.Time `json:"completedAt"`
}

type LocationUpdatedPayload struct {
	ParcelID  string    `json:"parcelId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AgentID   string    `json:"agentId"`
	Timestamp time.Time `json:"timestamp"`
}

type AnnouncementPayload struct {
	Message string    `json:"message"`
	From    string    `json:"from"`
	SentAt  time.Time `json:"sentAt"`
}
