package models

import "time"

const (
	PaymentKindTopUp    = "topup"
	PaymentKindRenew    = "renew"
	PaymentKindUpgrade  = "upgrade"
	PaymentKindPurchase = "purchase"
)

const (
	PaymentOrderStatusCreated              = "created"
	PaymentOrderStatusAwaitingVerification = "awaiting_verification"
	PaymentOrderStatusPaid                 = "paid"
	PaymentOrderStatusFailed               = "failed"
	PaymentOrderStatusCancelled            = "cancelled"
	PaymentOrderStatusAbandoned            = "abandoned"
)

// PaymentOrder tracks one checkout attempt against the payment gateway.
// It is created when a billing intent is accepted, and finalized by the
// verify callback (or by cancellation / the abandonment sweeper).
type PaymentOrder struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BranchID uint `gorm:"not null;index" json:"branch_id"`
	// Kind is one of topup|renew|upgrade|purchase.
	Kind     string  `gorm:"type:varchar(16);not null;index" json:"kind"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	// TargetPlanID is set for upgrade and purchase intents.
	TargetPlanID uint `gorm:"default:0" json:"target_plan_id,omitempty"`
	// AdditionalOrders is set for top-up intents.
	AdditionalOrders  int        `gorm:"default:0" json:"additional_orders,omitempty"`
	RazorpayOrderID   string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"razorpay_order_id"`
	RazorpayPaymentID string     `gorm:"type:varchar(64);default:''" json:"razorpay_payment_id,omitempty"`
	Status            string     `gorm:"type:varchar(32);not null;default:'created';index" json:"status"`
	FailureReason     string     `gorm:"type:text" json:"failure_reason,omitempty"`
	RawReceiptJSON    string     `gorm:"type:text" json:"-"`
	VerifiedAt        *time.Time `gorm:"type:timestamp;default:null" json:"verified_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsFinal reports whether the order can no longer change state.
func (p *PaymentOrder) IsFinal() bool {
	switch p.Status {
	case PaymentOrderStatusPaid, PaymentOrderStatusFailed,
		PaymentOrderStatusCancelled, PaymentOrderStatusAbandoned:
		return true
	default:
		return false
	}
}
