package enums

import "fmt"

// LineType classifies a cart line by the kind of service it buys.
type LineType string

const (
	LineTypeGrocery     LineType = "grocery"
	LineTypeFood        LineType = "food"
	LineTypePrint       LineType = "print"
	LineTypeLamination  LineType = "lamination"
	LineTypeBinding     LineType = "binding"
	LineTypeBillPayment LineType = "bill_payment"
	LineTypeOther       LineType = "other"
)

var validLineTypes = []LineType{
	LineTypeGrocery,
	LineTypeFood,
	LineTypePrint,
	LineTypeLamination,
	LineTypeBinding,
	LineTypeBillPayment,
	LineTypeOther,
}

// IsValid reports whether the value matches the canonical line type enum.
func (l LineType) IsValid() bool {
	for _, candidate := range validLineTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsPrintAddon reports whether the line type is a fulfillment add-on to a
// print job (lamination/binding cannot ship without printed pages).
func (l LineType) IsPrintAddon() bool {
	return l == LineTypeLamination || l == LineTypeBinding
}

// ParseLineType converts the raw string to LineType.
func ParseLineType(value string) (LineType, error) {
	for _, candidate := range validLineTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line type %q", value)
}
