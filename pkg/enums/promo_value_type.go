package enums

import "fmt"

// PromoValueType describes how a promo value is applied to a subtotal.
type PromoValueType string

const (
	PromoValueTypePercentage PromoValueType = "percentage"
	PromoValueTypeFixed      PromoValueType = "fixed"
)

var validPromoValueTypes = []PromoValueType{
	PromoValueTypePercentage,
	PromoValueTypeFixed,
}

// IsValid reports whether the value matches the canonical promo value type enum.
func (p PromoValueType) IsValid() bool {
	for _, candidate := range validPromoValueTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromoValueType converts the raw string to PromoValueType.
func ParsePromoValueType(value string) (PromoValueType, error) {
	for _, candidate := range validPromoValueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo value type %q", value)
}
