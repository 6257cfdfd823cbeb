package billing

import (
	"fmt"

	"github.com/roll2bowl/partner-api/app/models"
)

// Intent is a validated billing action about to be sent to the payment
// gateway. Kind is one of the models.PaymentKind* values.
type Intent struct {
	Kind     string
	BranchID uint
	Amount   float64
	Currency string
	// TargetPlanID is set for upgrade and purchase intents.
	TargetPlanID uint
	// AdditionalOrders is set for top-up intents.
	AdditionalOrders int
}

// IntentResult is returned to the client so it can open the checkout
// widget with the opaque gateway order reference.
type IntentResult struct {
	RazorpayOrderID string  `json:"razorpayOrderId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Kind            string  `json:"kind"`
}

// VerifyResult describes a successfully verified payment along with the
// user-visible notice keyed to the intent kind.
type VerifyResult struct {
	Order  *models.PaymentOrder
	Notice string
}

// ValidKind reports whether kind names a known billing intent.
func ValidKind(kind string) bool {
	switch kind {
	case models.PaymentKindTopUp, models.PaymentKindRenew,
		models.PaymentKindUpgrade, models.PaymentKindPurchase:
		return true
	default:
		return false
	}
}

// NoticeForKind builds the success notice emitted after verification.
func NoticeForKind(order *models.PaymentOrder) string {
	switch order.Kind {
	case models.PaymentKindTopUp:
		return fmt.Sprintf("Successfully topped up %d orders for a total of %.2f.", order.AdditionalOrders, order.Amount)
	case models.PaymentKindRenew:
		return fmt.Sprintf("Subscription renewed for %.2f.", order.Amount)
	case models.PaymentKindUpgrade:
		return fmt.Sprintf("Subscription upgraded for %.2f.", order.Amount)
	case models.PaymentKindPurchase:
		return fmt.Sprintf("Subscription purchased for %.2f.", order.Amount)
	default:
		return "Payment successful."
	}
}
