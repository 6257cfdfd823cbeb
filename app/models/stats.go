package models

import "time"

// BranchStats is the aggregate view shown on the dashboard for one branch
// over a date range.
type BranchStats struct {
	TotalRevenue           float64 `json:"totalRevenue"`
	TotalOrders            int64   `json:"totalOrders"`
	DeliveredOrders        int64   `json:"deliveredOrders"`
	PendingPreparingOrders int64   `json:"pendingPreparingOrders"`
	CancelledOrders        int64   `json:"cancelledOrders"`
	PreviousPayout         float64 `json:"previousPayout"`
	NextPayout             *Payout `json:"nextPayout,omitempty"`
}

const (
	PayoutStatusScheduled = "scheduled"
	PayoutStatusPaid      = "paid"
)

// Payout is a settlement of online-order revenue to a branch.
type Payout struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	BranchID    uint       `gorm:"not null;index" json:"branch_id"`
	GrossAmount float64    `gorm:"not null;default:0" json:"gross_amount"`
	Commission  float64    `gorm:"not null;default:0" json:"commission"`
	NetPayout   float64    `gorm:"not null;default:0" json:"netPayout"`
	Status      string     `gorm:"type:varchar(16);not null;default:'scheduled';index" json:"status"`
	ScheduledAt time.Time  `gorm:"not null" json:"scheduled_at"`
	PaidAt      *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// BranchBalance is the delivered-order revenue accumulated since the
// branch's last settled payout.
type BranchBalance struct {
	Balance      float64    `json:"balance"`
	LastPayoutAt *time.Time `json:"lastPayoutAt,omitempty"`
}

// DailyStats is a per-day order count used by admin charts.
type DailyStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
