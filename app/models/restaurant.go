package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Restaurant is the top-level tenant owning one or more branches.
type Restaurant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Address   string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	Phone     string         `gorm:"type:varchar(20);index" json:"phone" validate:"max=20"`
	Email     string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Status    string         `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active inactive"`
	Branches  []Branch       `gorm:"foreignKey:RestaurantID" json:"branches,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Restaurant) Validate() error {
	v := validator.New()
	return v.Struct(r)
}
