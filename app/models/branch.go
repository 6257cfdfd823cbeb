package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Branch is a single restaurant location. It is the tenant unit for
// subscriptions, orders and menus.
type Branch struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant    `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	Name         string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Address      string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	Phone        string         `gorm:"type:varchar(20);index" json:"phone" validate:"max=20"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Branch) Validate() error {
	v := validator.New()
	return v.Struct(b)
}
