package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByBranchID(branchID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("branch_id = ?", branchID).
		Offset(offset).Limit(limit).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByBranchIDAndStatus(branchID uint, status string, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("branch_id = ? AND status = ?", branchID, status).
		Offset(offset).Limit(limit).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) UpdatePaymentStatus(id uint, paymentStatus string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("payment_status", paymentStatus).Error
}

func (r *orderRepository) CountByBranchID(branchID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("branch_id = ?", branchID).Count(&count).Error
	return count, err
}

// CountByBranchIDSince counts orders placed since the given time, used
// for usage accounting within a subscription window.
func (r *orderRepository) CountByBranchIDSince(branchID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("branch_id = ? AND created_at >= ?", branchID, since).
		Count(&count).Error
	return count, err
}
