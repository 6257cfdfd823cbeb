package repository

import (
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// fileRepository implements the FileRepository interface
type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository instance
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *models.File) error {
	return r.db.Create(file).Error
}

func (r *fileRepository) GetByUUID(uuid string) (*models.File, error) {
	var file models.File
	err := r.db.Where("uuid = ?", uuid).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) GetByEntity(entityType string, offset, limit int) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("entity_type = ?", entityType).
		Offset(offset).Limit(limit).Order("created_at desc").Find(&files).Error
	return files, err
}

func (r *fileRepository) Delete(id uint) error {
	return r.db.Delete(&models.File{}, id).Error
}
