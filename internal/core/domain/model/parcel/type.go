package parcel

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Type classifies a parcel by size. It drives the base shipping cost.
type Type int

const (
	UnknownType Type = iota
	Document
	SmallPackage
	MediumPackage
	LargePackage
)

var typeNames = map[Type]string{
	Document:      "document",
	SmallPackage:  "small-package",
	MediumPackage: "medium-package",
	LargePackage:  "large-package",
}

var baseCosts = map[Type]int64{
	Document:      50,
	SmallPackage:  100,
	MediumPackage: 200,
	LargePackage:  400,
}

func ParseType(s string) (Type, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == needle {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("parcelType", fmt.Errorf("%q is not a valid parcel type", s))
}

func (t Type) Validate() error {
	if _, ok := typeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("parcelType", fmt.Errorf("%d is not a valid parcel type", t))
	}
	return nil
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// BaseCost is the flat part of the shipping cost for t.
func (t Type) BaseCost() decimal.Decimal {
	return decimal.NewFromInt(baseCosts[t])
}

// PaymentMethod says who pays and when.
type PaymentMethod int

const (
	UnknownPaymentMethod PaymentMethod = iota
	Prepaid
	CashOnDelivery
)

var paymentMethodNames = map[PaymentMethod]string{
	Prepaid:        "prepaid",
	CashOnDelivery: "cod",
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for m, name := range paymentMethodNames {
		if name == needle {
			return m, nil
		}
	}
	return UnknownPaymentMethod, errs.NewValueIsInvalidErrorWithCause(
		"paymentMethod", fmt.Errorf("%q is not a valid payment method", s))
}

func (m PaymentMethod) Validate() error {
	if _, ok := paymentMethodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "unknown"
}
