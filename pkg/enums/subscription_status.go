package enums

import "fmt"

// SubscriptionStatus tracks the lifecycle state of a subscription row.
// Transitions only move forward: activa -> cancelada, activa -> expirada.
type SubscriptionStatus string

const (
	SubscriptionStatusActiva    SubscriptionStatus = "activa"
	SubscriptionStatusCancelada SubscriptionStatus = "cancelada"
	SubscriptionStatusExpirada  SubscriptionStatus = "expirada"
)

var validSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActiva,
	SubscriptionStatusCancelada,
	SubscriptionStatusExpirada,
}

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SubscriptionStatus) IsValid() bool {
	for _, candidate := range validSubscriptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelada || s == SubscriptionStatusExpirada
}

// ParseSubscriptionStatus converts raw input into a SubscriptionStatus.
func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	for _, candidate := range validSubscriptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription status %q", value)
}
