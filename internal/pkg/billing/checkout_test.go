package billing

import (
	"testing"

	"github.com/roll2bowl/partner-api/app/models"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.PaymentOrderStatusCreated, models.PaymentOrderStatusAwaitingVerification, true},
		{models.PaymentOrderStatusCreated, models.PaymentOrderStatusCancelled, true},
		{models.PaymentOrderStatusCreated, models.PaymentOrderStatusAbandoned, true},
		{models.PaymentOrderStatusCreated, models.PaymentOrderStatusPaid, false},
		{models.PaymentOrderStatusAwaitingVerification, models.PaymentOrderStatusPaid, true},
		{models.PaymentOrderStatusAwaitingVerification, models.PaymentOrderStatusFailed, true},
		{models.PaymentOrderStatusAwaitingVerification, models.PaymentOrderStatusCancelled, false},
		{models.PaymentOrderStatusPaid, models.PaymentOrderStatusFailed, false},
		{models.PaymentOrderStatusPaid, models.PaymentOrderStatusCreated, false},
		{models.PaymentOrderStatusFailed, models.PaymentOrderStatusPaid, false},
		{models.PaymentOrderStatusCancelled, models.PaymentOrderStatusAwaitingVerification, false},
		{models.PaymentOrderStatusAbandoned, models.PaymentOrderStatusPaid, false},
	}
	for _, tc := range tests {
		if got := ValidTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransition(t *testing.T) {
	order := &models.PaymentOrder{
		RazorpayOrderID: "order_x",
		Status:          models.PaymentOrderStatusCreated,
	}
	if err := Transition(order, models.PaymentOrderStatusAwaitingVerification); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != models.PaymentOrderStatusAwaitingVerification {
		t.Fatalf("status = %s, want %s", order.Status, models.PaymentOrderStatusAwaitingVerification)
	}

	if err := Transition(order, models.PaymentOrderStatusCancelled); err == nil {
		t.Fatalf("expected illegal transition to be rejected")
	}
	if order.Status != models.PaymentOrderStatusAwaitingVerification {
		t.Fatalf("illegal transition must not mutate status, got %s", order.Status)
	}

	if err := Transition(nil, models.PaymentOrderStatusPaid); err == nil {
		t.Fatalf("expected nil order to be rejected")
	}
}

func TestTransition_FinalStatesAreTerminal(t *testing.T) {
	finals := []string{
		models.PaymentOrderStatusPaid,
		models.PaymentOrderStatusFailed,
		models.PaymentOrderStatusCancelled,
		models.PaymentOrderStatusAbandoned,
	}
	all := append([]string{
		models.PaymentOrderStatusCreated,
		models.PaymentOrderStatusAwaitingVerification,
	}, finals...)
	for _, from := range finals {
		for _, to := range all {
			if ValidTransition(from, to) {
				t.Errorf("final status %s must not transition to %s", from, to)
			}
		}
	}
}
