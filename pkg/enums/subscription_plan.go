package enums

import "fmt"

// SubscriptionPlan identifies the commercial tier a subscription grants.
type SubscriptionPlan string

const (
	SubscriptionPlanBasico      SubscriptionPlan = "basico"
	SubscriptionPlanPremium     SubscriptionPlan = "premium"
	SubscriptionPlanProfesional SubscriptionPlan = "profesional"
)

var validSubscriptionPlans = []SubscriptionPlan{
	SubscriptionPlanBasico,
	SubscriptionPlanPremium,
	SubscriptionPlanProfesional,
}

// String implements fmt.Stringer.
func (p SubscriptionPlan) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p SubscriptionPlan) IsValid() bool {
	for _, candidate := range validSubscriptionPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsPaid reports whether the plan is a paid tier. The basico tier also exists
// as an implicit default that never has a persisted row.
func (p SubscriptionPlan) IsPaid() bool {
	return p == SubscriptionPlanPremium || p == SubscriptionPlanProfesional
}

// ParseSubscriptionPlan converts raw input into a SubscriptionPlan.
func ParseSubscriptionPlan(value string) (SubscriptionPlan, error) {
	for _, candidate := range validSubscriptionPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription plan %q", value)
}
