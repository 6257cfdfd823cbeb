package billing

import (
	"fmt"

	"github.com/roll2bowl/partner-api/app/models"
)

// Checkout lifecycle, persisted on the payment order row:
//
//	created -> awaiting_verification -> paid | failed
//	created -> cancelled
//	created | awaiting_verification -> abandoned
//
// Cancellation and abandonment never touch subscription state; the
// gateway order is simply left unpaid and retries create a fresh one.
var checkoutTransitions = map[string][]string{
	models.PaymentOrderStatusCreated: {
		models.PaymentOrderStatusAwaitingVerification,
		models.PaymentOrderStatusCancelled,
		models.PaymentOrderStatusAbandoned,
	},
	models.PaymentOrderStatusAwaitingVerification: {
		models.PaymentOrderStatusPaid,
		models.PaymentOrderStatusFailed,
		models.PaymentOrderStatusAbandoned,
	},
}

// ValidTransition reports whether a payment order may move from one
// checkout status to another.
func ValidTransition(from, to string) bool {
	for _, allowed := range checkoutTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves a payment order to the target status, rejecting
// illegal moves. It mutates the order in memory only; persisting is the
// caller's job.
func Transition(order *models.PaymentOrder, to string) error {
	if order == nil {
		return fmt.Errorf("payment order is required")
	}
	if !ValidTransition(order.Status, to) {
		return fmt.Errorf("illegal checkout transition %s -> %s for order %s", order.Status, to, order.RazorpayOrderID)
	}
	order.Status = to
	return nil
}
