package models

import "time"

const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
	SubscriptionStatusPending = "pending"
	SubscriptionStatusUnknown = "unknown"
)

// SubscriptionRecord is a time-boxed grant of order capacity to a branch
// under a plan. At most one record per branch should be active at a time;
// the backend does not hard-enforce this, the reconciler tie-breaks.
type SubscriptionRecord struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	BranchID  uint              `gorm:"not null;index:idx_subscription_records_branch_status,priority:1" json:"branch_id"`
	Branch    *Branch           `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	PlanID    uint              `gorm:"not null;index" json:"plan_id"`
	Plan      *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	StartDate time.Time         `gorm:"not null" json:"start_date"`
	EndDate   time.Time         `gorm:"not null" json:"end_date"`
	// OrderCount is the cumulative number of orders consumed in this window.
	OrderCount int `gorm:"not null;default:0" json:"order_count"`
	// MaxOrders is the effective allowance for this window. Seeded from the
	// plan at creation; top-ups add to it without touching the plan.
	MaxOrders int `gorm:"not null;default:0" json:"max_orders"`
	// Price override for legacy records whose plan row carries no price.
	Price     float64   `gorm:"default:0" json:"price,omitempty"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_subscription_records_branch_status,priority:2" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCurrent reports whether now falls inside the record's validity window.
func (r *SubscriptionRecord) IsCurrent(now time.Time) bool {
	return !now.Before(r.StartDate) && !now.After(r.EndDate)
}
