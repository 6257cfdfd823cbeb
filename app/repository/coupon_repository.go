package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// couponRepository implements the CouponRepository interface
type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository instance
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *couponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.First(&coupon, id).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetByCode(code string) (*models.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var coupon models.Coupon
	err := r.db.Where("code = ?", trimmed).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetByBranchID(branchID uint) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.Where("branch_id = ?", branchID).Order("created_at desc").Find(&coupons).Error
	return coupons, err
}

func (r *couponRepository) GetByRestaurantID(restaurantID uint) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.Where("restaurant_id = ?", restaurantID).Order("created_at desc").Find(&coupons).Error
	return coupons, err
}

func (r *couponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

func (r *couponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}
