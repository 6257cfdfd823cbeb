package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CouponDiscountPercentage = "Percentage"
	CouponDiscountAmount     = "Amount"
)

const (
	CouponCreatorRestaurant = "Restaurant"
	CouponCreatorCompany    = "Company"
	CouponCreatorBranch     = "Branch"
)

// Coupon is a discount code redeemable at one or more branches.
type Coupon struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"code" validate:"required,min=2,max=50"`
	Description  string         `gorm:"type:text" json:"description"`
	DiscountType string         `gorm:"type:varchar(20);not null" json:"discount_type" validate:"oneof=Percentage Amount"`
	Value        float64        `gorm:"not null" json:"value" validate:"gt=0"`
	MinCartValue float64        `gorm:"default:0" json:"min_cart_value"`
	FreeShipping bool           `gorm:"default:false" json:"free_shipping"`
	CreatedBy    string         `gorm:"type:varchar(20);not null;default:'Branch'" json:"created_by" validate:"oneof=Restaurant Company Branch"`
	RestaurantID uint           `gorm:"index" json:"restaurant_id,omitempty"`
	BranchID     uint           `gorm:"index" json:"branch_id,omitempty"`
	ValidFrom    *time.Time     `gorm:"type:timestamp;default:null" json:"valid_from,omitempty"`
	ValidTo      *time.Time     `gorm:"type:timestamp;default:null" json:"valid_to,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Coupon) Validate() error {
	v := validator.New()
	return v.Struct(c)
}
