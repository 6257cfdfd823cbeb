package models

import "time"

// File records an uploaded object (menu photos, branch documents) stored
// in the S3 bucket.
type File struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	EntityType string    `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityName string    `gorm:"type:varchar(150)" json:"entity_name"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	ObjectKey  string    `gorm:"type:varchar(255);not null" json:"object_key"`
	MimeType   string    `gorm:"type:varchar(100)" json:"mime_type"`
	SizeBytes  int64     `gorm:"not null;default:0" json:"size_bytes"`
	UploadedBy uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
