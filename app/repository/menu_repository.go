package repository

import (
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// menuRepository implements the MenuRepository interface
type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository instance
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateCategory(category *models.MenuCategory) error {
	return r.db.Create(category).Error
}

func (r *menuRepository) GetCategoryByID(id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoriesForBranch returns the branch's own categories plus the
// global ones shared across all branches.
func (r *menuRepository) GetCategoriesForBranch(branchID uint) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.Where("branch_id = ? OR is_global = ?", branchID, true).
		Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *menuRepository) UpdateCategory(category *models.MenuCategory) error {
	return r.db.Save(category).Error
}

func (r *menuRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&models.MenuCategory{}, id).Error
}

func (r *menuRepository) CreateItem(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

func (r *menuRepository) GetItemByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) GetItemsByBranchID(branchID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Where("branch_id = ?", branchID).Order("name asc").Find(&items).Error
	return items, err
}

func (r *menuRepository) GetItemsByCategory(branchID, categoryID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Where("branch_id = ? AND category_id = ?", branchID, categoryID).
		Order("name asc").Find(&items).Error
	return items, err
}

func (r *menuRepository) UpdateItem(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

func (r *menuRepository) SetItemAvailability(id uint, available bool) error {
	return r.db.Model(&models.MenuItem{}).Where("id = ?", id).
		Update("is_available", available).Error
}

func (r *menuRepository) DeleteItem(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}

func (r *menuRepository) CountItemsByBranchID(branchID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.MenuItem{}).Where("branch_id = ?", branchID).Count(&count).Error
	return count, err
}
