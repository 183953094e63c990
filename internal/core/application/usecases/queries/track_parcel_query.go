package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrTrackParcelQueryIsNotConstructed = errors.New(
	"TrackParcelQuery must be created via NewTrackParcelQuery constructor",
)

// TrackParcelQuery is the public lookup by the tracking number printed on
// the label. No identity is needed.
//
// Example:
//
//	query, err := queries.NewTrackParcelQuery(c.Param("trackingNumber"))
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type TrackParcelQuery struct {
	trackingNumber kernel.TrackingNumber
	guard          guard.ConstructorGuard
}

func NewTrackParcelQuery(trackingNumber string) (TrackParcelQuery, error) {
	tn, err := kernel.ParseTrackingNumber(trackingNumber)
	if err != nil {
		return TrackParcelQuery{}, err
	}
	return TrackParcelQuery{trackingNumber: tn, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackParcelQuery) Validate() error {
	return q.guard.Validate(ErrTrackParcelQueryIsNotConstructed)
}

func (q TrackParcelQuery) TrackingNumber() kernel.TrackingNumber { return q.trackingNumber }
