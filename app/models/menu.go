package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	DishTypeVeg    = "veg"
	DishTypeNonVeg = "non-veg"
)

// MenuVariant is a sized/portioned variant of a menu item.
type MenuVariant struct {
	Label      string         `json:"label"`
	Price      float64        `json:"price"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// MenuAddOn is an optional paid extra.
type MenuAddOn struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// MenuOption is a free choice (e.g. spice level).
type MenuOption struct {
	Option  string   `json:"option"`
	Choices []string `json:"choices"`
}

// JSONColumn stores a JSON-serializable value in a text column.
type JSONColumn[T any] struct {
	Data T
}

func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	return string(b), err
}

func (j *JSONColumn[T]) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	case nil:
		return nil
	default:
		return errors.New("unsupported JSON column source type")
	}
}

func (j JSONColumn[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONColumn[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.Data)
}

// MenuCategory groups menu items. Global categories are visible to all
// branches; others belong to exactly one branch.
type MenuCategory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=2,max=100"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	IsGlobal    bool           `gorm:"default:false;index" json:"is_global"`
	BranchID    uint           `gorm:"index" json:"branch_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *MenuCategory) Validate() error {
	v := validator.New()
	return v.Struct(c)
}

// MenuItem is a dish offered by a branch.
type MenuItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BranchID    uint   `gorm:"not null;index" json:"branch_id"`
	CategoryID  uint   `gorm:"not null;index" json:"category_id"`
	Name        string `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Description string `gorm:"type:text" json:"description"`
	// Price is unset when the item is priced per variant.
	Price       float64                   `gorm:"default:0" json:"price,omitempty"`
	ImageURL    string                    `gorm:"type:varchar(255)" json:"image,omitempty"`
	IsAvailable bool                      `gorm:"default:true;index" json:"is_available"`
	DishType    string                    `gorm:"type:varchar(10);not null;default:'veg'" json:"dish_type" validate:"oneof=veg non-veg"`
	TaxSlab     float64                   `gorm:"default:0" json:"tax_slab"`
	HasVariants bool                      `gorm:"default:false" json:"has_variants"`
	Variants    JSONColumn[[]MenuVariant] `gorm:"type:text" json:"variants,omitempty"`
	Options     JSONColumn[[]MenuOption]  `gorm:"type:text" json:"options,omitempty"`
	AddOns      JSONColumn[[]MenuAddOn]   `gorm:"type:text" json:"add_ons,omitempty"`
	CreatedAt   time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt            `gorm:"index" json:"-"`
}

func (m *MenuItem) Validate() error {
	v := validator.New()
	return v.Struct(m)
}
