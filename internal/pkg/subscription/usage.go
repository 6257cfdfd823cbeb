package subscription

import "math"

// Severity of the low-credit warning shown on the dashboard.
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	lowUsageThresholdPct = 80
	lowRemainingOrders   = 10
)

func remainingOrders(maxOrders, orderCount int) int {
	remaining := maxOrders - orderCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func usagePercentage(maxOrders, orderCount int) int {
	if maxOrders <= 0 {
		return 0
	}
	pct := int(math.Round(float64(orderCount) / float64(maxOrders) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// IsCreditsLow reports whether the branch should be warned about running
// out of order credits.
func (r *Reconciled) IsCreditsLow() bool {
	return r.UsagePercentage >= lowUsageThresholdPct || r.RemainingOrders <= lowRemainingOrders
}

// IsCreditsExhausted reports whether no order credits remain.
func (r *Reconciled) IsCreditsExhausted() bool {
	return r.RemainingOrders <= 0
}

// WarningSeverity derives the dashboard warning level from usage.
func (r *Reconciled) WarningSeverity() Severity {
	switch {
	case r.IsCreditsExhausted():
		return SeverityError
	case r.IsCreditsLow():
		return SeverityWarning
	default:
		return SeverityNone
	}
}
