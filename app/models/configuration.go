package models

import "time"

// Well-known configuration entry names.
const (
	ConfigPerOrderValue = "PER_ORDER_VALUE"
)

// DefaultPerOrderValue is used when the PER_ORDER_VALUE entry is missing.
const DefaultPerOrderValue = 7.0

// Configuration is a named numeric setting exposed to the admin clients
// (e.g. the per-order top-up price).
type Configuration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Value     float64   `gorm:"not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
