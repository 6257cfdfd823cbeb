package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	// Transact runs fn against a repository bound to one transaction,
	// rolling everything back when fn returns an error.
	Transact(fn func(Repository) error) error

	GetBranch(id uint) (*models.Branch, error)
	GetPlan(id uint) (*models.SubscriptionPlan, error)

	ListStatusRecords(branchID uint) ([]models.SubscriptionRecord, error)
	GetRecord(id uint) (*models.SubscriptionRecord, error)
	CreateRecord(rec *models.SubscriptionRecord) error
	SaveRecord(rec *models.SubscriptionRecord) error

	CreatePaymentOrder(order *models.PaymentOrder) error
	GetPaymentOrderByGatewayID(razorpayOrderID string) (*models.PaymentOrder, error)
	SavePaymentOrder(order *models.PaymentOrder) error
	ListStalePaymentOrders(cutoff time.Time) ([]models.PaymentOrder, error)

	GetConfigurationValue(name string) (float64, error)
}

// ErrConfigurationMissing is returned when a named configuration entry
// does not exist; callers fall back to their defaults.
var ErrConfigurationMissing = errors.New("configuration entry not found")

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetBranch(id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.First(&branch, id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *gormRepository) GetPlan(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) Transact(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// ListStatusRecords returns subscription-status rows. When branchID is
// zero, all records visible to the caller are returned; the status
// endpoint historically does not filter server-side, the reconciler
// guards against cross-branch rows.
func (r *gormRepository) ListStatusRecords(branchID uint) ([]models.SubscriptionRecord, error) {
	var records []models.SubscriptionRecord
	q := r.db.Preload("Branch").Preload("Plan").Order("created_at asc")
	if branchID != 0 {
		q = q.Where("branch_id = ?", branchID)
	}
	err := q.Find(&records).Error
	return records, err
}

func (r *gormRepository) GetRecord(id uint) (*models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	if err := r.db.Preload("Branch").Preload("Plan").First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) CreateRecord(rec *models.SubscriptionRecord) error {
	return r.db.Create(rec).Error
}

func (r *gormRepository) SaveRecord(rec *models.SubscriptionRecord) error {
	return r.db.Save(rec).Error
}

func (r *gormRepository) CreatePaymentOrder(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) GetPaymentOrderByGatewayID(razorpayOrderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.Where("razorpay_order_id = ?", razorpayOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) SavePaymentOrder(order *models.PaymentOrder) error {
	return r.db.Save(order).Error
}

func (r *gormRepository) ListStalePaymentOrders(cutoff time.Time) ([]models.PaymentOrder, error) {
	var orders []models.PaymentOrder
	err := r.db.
		Where("status IN ? AND created_at < ?",
			[]string{models.PaymentOrderStatusCreated, models.PaymentOrderStatusAwaitingVerification},
			cutoff).
		Find(&orders).Error
	return orders, err
}

func (r *gormRepository) GetConfigurationValue(name string) (float64, error) {
	var cfg models.Configuration
	err := r.db.Where("name = ?", name).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrConfigurationMissing
		}
		return 0, err
	}
	return cfg.Value, nil
}
