package parcel

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a pickup or delivery point. Coordinates are optional.
type Address struct {
	line  string
	city  string
	point *kernel.GeoPoint
	guard guard.ConstructorGuard
}

func NewAddress(line, city string, point *kernel.GeoPoint) (Address, error) {
	a := Address{guard: guard.NewConstructorGuard()}

	line = strings.TrimSpace(line)
	city = strings.TrimSpace(city)

	var errList []error
	if line == "" {
		errList = append(errList, errs.NewValueIsRequiredError("address"))
	}
	if city == "" {
		errList = append(errList, errs.NewValueIsRequiredError("city"))
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return Address{}, err
	}

	a.line = line
	a.city = city
	if point != nil {
		p := *point
		a.point = &p
	}
	return a, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Line() string {
	return a.line
}

func (a Address) City() string {
	return a.city
}

// Point returns the coordinates and whether they are known.
func (a Address) Point() (kernel.GeoPoint, bool) {
	if a.point == nil {
		return kernel.GeoPoint{}, false
	}
	return *a.point, true
}
