package delivery

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
)

// TrackPoint is one GPS sample reported by the carrying agent.
type TrackPoint struct {
	Point      kernel.GeoPoint
	RecordedAt time.Time
}
