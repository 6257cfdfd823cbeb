package repository

import (
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// branchRepository implements the BranchRepository interface
type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository instance
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(branch *models.Branch) error {
	return r.db.Create(branch).Error
}

func (r *branchRepository) GetByID(id uint) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.Preload("Restaurant").First(&branch, id).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) GetByRestaurantID(restaurantID uint) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&branches).Error
	return branches, err
}

// GetByOwnerID returns every branch under the owner's restaurants.
func (r *branchRepository) GetByOwnerID(ownerID uint) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.
		Joins("JOIN restaurants ON restaurants.id = branches.restaurant_id").
		Where("restaurants.owner_id = ?", ownerID).
		Preload("Restaurant").
		Order("branches.name asc").
		Find(&branches).Error
	return branches, err
}

func (r *branchRepository) Update(branch *models.Branch) error {
	return r.db.Save(branch).Error
}

func (r *branchRepository) Delete(id uint) error {
	return r.db.Delete(&models.Branch{}, id).Error
}

func (r *branchRepository) List(offset, limit int) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.Preload("Restaurant").Offset(offset).Limit(limit).
		Order("created_at desc").Find(&branches).Error
	return branches, err
}

func (r *branchRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Branch{}).Count(&count).Error
	return count, err
}

// OwnedBy reports whether the branch belongs to one of the owner's
// restaurants. Used by route guards before any branch-scoped operation.
func (r *branchRepository) OwnedBy(branchID, ownerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Branch{}).
		Joins("JOIN restaurants ON restaurants.id = branches.restaurant_id").
		Where("branches.id = ? AND restaurants.owner_id = ?", branchID, ownerID).
		Count(&count).Error
	return count > 0, err
}
