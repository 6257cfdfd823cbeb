package repository

import (
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// restaurantRepository implements the RestaurantRepository interface
type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository instance
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

func (r *restaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetByOwnerID(ownerID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("owner_id = ?", ownerID).Order("name asc").Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepository) GetByOwnerIDWithBranches(ownerID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Preload("Branches").Where("owner_id = ?", ownerID).Order("name asc").Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

func (r *restaurantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Restaurant{}, id).Error
}

func (r *restaurantRepository) List(offset, limit int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Offset(offset).Limit(limit).Order("created_at desc").Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Count(&count).Error
	return count, err
}
