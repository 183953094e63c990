package parcel

import (
	"fmt"
	"math"

	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CostPerKm is added to the base cost for every kilometre between pickup and destination.
var CostPerKm = decimal.NewFromInt(2)

// CalculateShippingCost returns base(t) + distanceKm * CostPerKm rounded to cents.
func CalculateShippingCost(t Type, distanceKm float64) (decimal.Decimal, error) {
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return decimal.Zero, errs.NewValueIsInvalidErrorWithCause(
			"distance", fmt.Errorf("%v is not a non-negative distance", distanceKm))
	}

	variable := decimal.NewFromFloat(distanceKm).Mul(CostPerKm)
	return t.BaseCost().Add(variable).Round(2), nil
}

// RouteDistanceKm is the straight-line distance between two addresses, or 0
// when either of them has no coordinates.
func RouteDistanceKm(from, to Address) float64 {
	a, okA := from.Point()
	b, okB := to.Point()
	if !okA || !okB {
		return 0
	}
	d, err := a.DistanceKm(b)
	if err != nil {
		return 0
	}
	return d
}
