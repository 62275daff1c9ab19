package enums

import "fmt"

// OfferUnit is the measurement unit a farm offer sells bundles in.
type OfferUnit string

const (
	OfferUnitKg     OfferUnit = "kg"
	OfferUnitPcs    OfferUnit = "pcs"
	OfferUnitLiters OfferUnit = "liters"
	OfferUnitBoxes  OfferUnit = "boxes"
)

var validOfferUnits = []OfferUnit{
	OfferUnitKg,
	OfferUnitPcs,
	OfferUnitLiters,
	OfferUnitBoxes,
}

// String implements fmt.Stringer.
func (u OfferUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known OfferUnit.
func (u OfferUnit) IsValid() bool {
	for _, candidate := range validOfferUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseOfferUnit converts raw input into an OfferUnit.
func ParseOfferUnit(value string) (OfferUnit, error) {
	for _, candidate := range validOfferUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer unit %q", value)
}
