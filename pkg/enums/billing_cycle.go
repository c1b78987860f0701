package enums

import "fmt"

// BillingCycle defines the cadence a subscription is billed on.
type BillingCycle string

const (
	BillingCycleMensual BillingCycle = "mensual"
	BillingCycleAnual   BillingCycle = "anual"
)

var validBillingCycles = []BillingCycle{
	BillingCycleMensual,
	BillingCycleAnual,
}

// String implements fmt.Stringer.
func (b BillingCycle) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BillingCycle.
func (b BillingCycle) IsValid() bool {
	for _, candidate := range validBillingCycles {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBillingCycle converts raw input into a BillingCycle.
func ParseBillingCycle(value string) (BillingCycle, error) {
	for _, candidate := range validBillingCycles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billing cycle %q", value)
}
