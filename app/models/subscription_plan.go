package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SubscriptionPlan is a purchasable plan granting a branch a number of
// order credits for a validity window.
type SubscriptionPlan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PlanName       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"plan_name" validate:"required,min=2,max=100"`
	Description    string    `gorm:"type:text" json:"description"`
	Price          float64   `gorm:"not null" json:"price" validate:"gt=0"`
	MaxOrders      int       `gorm:"not null;default:0" json:"max_orders"`
	DurationInDays int       `gorm:"not null;default:30" json:"duration_in_days" validate:"gt=0"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *SubscriptionPlan) Validate() error {
	v := validator.New()
	return v.Struct(p)
}
