package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByPhoneNumber(phoneNumber string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	TouchLastLogin(id uint, at time.Time) error
}

// RestaurantRepository defines the interface for restaurant operations
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	GetByOwnerID(ownerID uint) ([]models.Restaurant, error)
	GetByOwnerIDWithBranches(ownerID uint) ([]models.Restaurant, error)
	Update(restaurant *models.Restaurant) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Restaurant, error)
	Count() (int64, error)
}

// BranchRepository defines the interface for branch operations
type BranchRepository interface {
	Create(branch *models.Branch) error
	GetByID(id uint) (*models.Branch, error)
	GetByRestaurantID(restaurantID uint) ([]models.Branch, error)
	GetByOwnerID(ownerID uint) ([]models.Branch, error)
	Update(branch *models.Branch) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Branch, error)
	Count() (int64, error)
	OwnedBy(branchID, ownerID uint) (bool, error)
}

// PlanRepository defines the interface for subscription plan operations
type PlanRepository interface {
	Create(plan *models.SubscriptionPlan) error
	GetByID(id uint) (*models.SubscriptionPlan, error)
	GetAll() ([]models.SubscriptionPlan, error)
	GetActive() ([]models.SubscriptionPlan, error)
	Update(plan *models.SubscriptionPlan) error
	Delete(id uint) error
}

// MenuRepository defines the interface for menu category and item operations
type MenuRepository interface {
	CreateCategory(category *models.MenuCategory) error
	GetCategoryByID(id uint) (*models.MenuCategory, error)
	GetCategoriesForBranch(branchID uint) ([]models.MenuCategory, error)
	UpdateCategory(category *models.MenuCategory) error
	DeleteCategory(id uint) error

	CreateItem(item *models.MenuItem) error
	GetItemByID(id uint) (*models.MenuItem, error)
	GetItemsByBranchID(branchID uint) ([]models.MenuItem, error)
	GetItemsByCategory(branchID, categoryID uint) ([]models.MenuItem, error)
	UpdateItem(item *models.MenuItem) error
	SetItemAvailability(id uint, available bool) error
	DeleteItem(id uint) error
	CountItemsByBranchID(branchID uint) (int64, error)
}

// OrderRepository defines the interface for customer order operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByBranchID(branchID uint, offset, limit int) ([]models.Order, error)
	GetByBranchIDAndStatus(branchID uint, status string, offset, limit int) ([]models.Order, error)
	UpdateStatus(id uint, status string) error
	UpdatePaymentStatus(id uint, paymentStatus string) error
	CountByBranchID(branchID uint) (int64, error)
	CountByBranchIDSince(branchID uint, since time.Time) (int64, error)
}

// CouponRepository defines the interface for coupon operations
type CouponRepository interface {
	Create(coupon *models.Coupon) error
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	GetByBranchID(branchID uint) ([]models.Coupon, error)
	GetByRestaurantID(restaurantID uint) ([]models.Coupon, error)
	Update(coupon *models.Coupon) error
	Delete(id uint) error
}

// FileRepository defines the interface for uploaded file records
type FileRepository interface {
	Create(file *models.File) error
	GetByUUID(uuid string) (*models.File, error)
	GetByEntity(entityType string, offset, limit int) ([]models.File, error)
	Delete(id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Restaurant RestaurantRepository
	Branch     BranchRepository
	Plan       PlanRepository
	Menu       MenuRepository
	Order      OrderRepository
	Coupon     CouponRepository
	File       FileRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Restaurant: NewRestaurantRepository(db),
		Branch:     NewBranchRepository(db),
		Plan:       NewPlanRepository(db),
		Menu:       NewMenuRepository(db),
		Order:      NewOrderRepository(db),
		Coupon:     NewCouponRepository(db),
		File:       NewFileRepository(db),
	}
}
