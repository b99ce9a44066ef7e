package enums

import "fmt"

// CartStatus mirrors the fulfillment progression stored on a cart.
type CartStatus string

const (
	CartStatusPending   CartStatus = "pending"
	CartStatusPaid      CartStatus = "paid"
	CartStatusShipped   CartStatus = "shipped"
	CartStatusDelivered CartStatus = "delivered"
)

var validCartStatuses = []CartStatus{
	CartStatusPending,
	CartStatusPaid,
	CartStatusShipped,
	CartStatusDelivered,
}

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	for _, candidate := range validCartStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
