package delivery

import (
	"fmt"
	"strings"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// Status is the state of a delivery run. It mirrors the parcel status except
// that the run starts at Assigned instead of Pending.
type Status int

const (
	UnknownStatus Status = iota
	Assigned
	PickedUp
	InTransit
	Delivered
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "unknown",
		Assigned:      "assigned",
		PickedUp:      "picked-up",
		InTransit:     "in-transit",
		Delivered:     "delivered",
		Failed:        "failed",
	}
}

func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != UnknownStatus && name == needle {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == UnknownStatus {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromParcel maps a parcel status onto the delivery run. A pending
// parcel with a delivery run is one that has only been assigned.
func StatusFromParcel(s parcel.Status) (Status, error) {
	switch s {
	case parcel.Pending:
		return Assigned, nil
	case parcel.PickedUp:
		return PickedUp, nil
	case parcel.InTransit:
		return InTransit, nil
	case parcel.Delivered:
		return Delivered, nil
	case parcel.Failed:
		return Failed, nil
	case parcel.UnknownStatus:
	}
	return UnknownStatus, s.Validate()
}
