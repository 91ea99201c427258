package enums

import "fmt"

// SpecialOrderStatus tracks how far a customer's out-of-catalog request progressed.
type SpecialOrderStatus string

const (
	SpecialOrderStatusPending   SpecialOrderStatus = "pending"
	SpecialOrderStatusContacted SpecialOrderStatus = "contacted"
	SpecialOrderStatusFulfilled SpecialOrderStatus = "fulfilled"
	SpecialOrderStatusCancelled SpecialOrderStatus = "cancelled"
)

var validSpecialOrderStatuses = []SpecialOrderStatus{
	SpecialOrderStatusPending,
	SpecialOrderStatusContacted,
	SpecialOrderStatusFulfilled,
	SpecialOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s SpecialOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SpecialOrderStatus.
func (s SpecialOrderStatus) IsValid() bool {
	for _, candidate := range validSpecialOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpecialOrderStatus converts raw input into a SpecialOrderStatus.
func ParseSpecialOrderStatus(value string) (SpecialOrderStatus, error) {
	for _, candidate := range validSpecialOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid special order status %q", value)
}
