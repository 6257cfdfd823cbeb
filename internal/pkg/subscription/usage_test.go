package subscription

import "testing"

func TestRemainingOrders_NeverNegative(t *testing.T) {
	tests := []struct {
		max, count, want int
	}{
		{max: 100, count: 5, want: 95},
		{max: 100, count: 100, want: 0},
		{max: 100, count: 150, want: 0},
		{max: 0, count: 10, want: 0},
	}
	for _, tt := range tests {
		if got := remainingOrders(tt.max, tt.count); got != tt.want {
			t.Fatalf("remainingOrders(%d, %d) = %d, want %d", tt.max, tt.count, got, tt.want)
		}
	}
}

func TestUsagePercentage_Clamped(t *testing.T) {
	tests := []struct {
		max, count, want int
	}{
		{max: 100, count: 5, want: 5},
		{max: 100, count: 95, want: 95},
		{max: 100, count: 150, want: 100},
		{max: 100, count: 0, want: 0},
		{max: 0, count: 50, want: 0},
		{max: 3, count: 1, want: 33},
		{max: 3, count: 2, want: 67},
	}
	for _, tt := range tests {
		if got := usagePercentage(tt.max, tt.count); got != tt.want {
			t.Fatalf("usagePercentage(%d, %d) = %d, want %d", tt.max, tt.count, got, tt.want)
		}
	}
}

func TestCreditWarnings(t *testing.T) {
	// 95 of 100 used: low but not exhausted.
	r := &Reconciled{MaxOrders: 100, RemainingOrders: 5, UsagePercentage: 95}
	if !r.IsCreditsLow() {
		t.Fatalf("expected credits low at 95%% usage")
	}
	if r.IsCreditsExhausted() {
		t.Fatalf("expected credits not exhausted with 5 remaining")
	}
	if r.WarningSeverity() != SeverityWarning {
		t.Fatalf("severity = %q, want warning", r.WarningSeverity())
	}

	// Low by remaining-orders rule even at modest percentage.
	r = &Reconciled{MaxOrders: 1000, RemainingOrders: 10, UsagePercentage: 99}
	if !r.IsCreditsLow() {
		t.Fatalf("expected credits low with 10 remaining")
	}

	// Healthy usage.
	r = &Reconciled{MaxOrders: 100, RemainingOrders: 95, UsagePercentage: 5}
	if r.IsCreditsLow() || r.IsCreditsExhausted() {
		t.Fatalf("expected no warning at 5%% usage")
	}
	if r.WarningSeverity() != SeverityNone {
		t.Fatalf("severity = %q, want none", r.WarningSeverity())
	}
}

func TestExhaustedImpliesLow(t *testing.T) {
	cases := []*Reconciled{
		{MaxOrders: 100, RemainingOrders: 0, UsagePercentage: 100},
		{MaxOrders: 50, RemainingOrders: 0, UsagePercentage: 100},
		{MaxOrders: 10, RemainingOrders: 0, UsagePercentage: 100},
	}
	for _, r := range cases {
		if !r.IsCreditsExhausted() {
			t.Fatalf("expected exhausted: %+v", r)
		}
		if !r.IsCreditsLow() {
			t.Fatalf("exhausted must imply low: %+v", r)
		}
		if r.WarningSeverity() != SeverityError {
			t.Fatalf("severity = %q, want error", r.WarningSeverity())
		}
	}
}
