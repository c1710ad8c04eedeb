package leavecredit

// Type enumerates the leave-type codes the ledger tracks. Adding a type is
// a compile-time change: extend the constants and AllTypes.
type Type string

const (
	TypeVacation    Type = "VL"
	TypeSick        Type = "SL"
	TypeWithoutPay  Type = "LWOP"
	TypeBereavement Type = "BL"
	TypeCalamity    Type = "CL"
)

// DefaultAnnualCredits is the yearly grant per credit-bearing type.
const DefaultAnnualCredits = 5

func AllTypes() []Type {
	return []Type{TypeVacation, TypeSick, TypeWithoutPay, TypeBereavement, TypeCalamity}
}

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeVacation, TypeSick, TypeWithoutPay, TypeBereavement, TypeCalamity:
		return Type(s), true
	}
	return "", false
}

// CreditBearing reports whether usage of the type is checked against and
// deducted from the yearly balance. Leave without pay is unlimited.
func (t Type) CreditBearing() bool {
	return t != TypeWithoutPay
}
