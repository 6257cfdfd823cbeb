package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	OrderPaymentPending = "pending"
	OrderPaymentPaid    = "paid"
	OrderPaymentFailed  = "failed"
)

const (
	OrderMethodCash   = "cash"
	OrderMethodOnline = "online"
)

// OrderItem is one line of a customer order, captured at order time so
// later menu edits do not rewrite history.
type OrderItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Variant    string  `json:"variant,omitempty"`
	TotalPrice float64 `json:"total_price"`
}

// Order is a customer order placed against a branch.
type Order struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	OrderNumber   string                  `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_number"`
	BranchID      uint                    `gorm:"not null;index:idx_orders_branch_created,priority:1" json:"branch_id"`
	CustomerName  string                  `gorm:"type:varchar(150)" json:"customer_name"`
	CustomerPhone string                  `gorm:"type:varchar(20);index" json:"customer_phone"`
	Address       string                  `gorm:"type:varchar(255)" json:"address,omitempty"`
	Items         JSONColumn[[]OrderItem] `gorm:"type:text" json:"items"`
	Status        string                  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus string                  `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod string                  `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	Subtotal      float64                 `gorm:"not null;default:0" json:"subtotal"`
	Tax           float64                 `gorm:"not null;default:0" json:"tax"`
	DeliveryFee   float64                 `gorm:"default:0" json:"delivery_fee,omitempty"`
	Total         float64                 `gorm:"not null;default:0" json:"total"`
	CreatedAt     time.Time               `gorm:"autoCreateTime;index:idx_orders_branch_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidOrderStatus reports whether s is a known order lifecycle status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case OrderPaymentPending, OrderPaymentPaid, OrderPaymentFailed:
		return true
	default:
		return false
	}
}
