package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetRestaurantRepository returns the restaurant repository instance
func (f *Factory) GetRestaurantRepository() RestaurantRepository {
	return f.GetRepositories().Restaurant
}

// GetBranchRepository returns the branch repository instance
func (f *Factory) GetBranchRepository() BranchRepository {
	return f.GetRepositories().Branch
}

// GetPlanRepository returns the subscription plan repository instance
func (f *Factory) GetPlanRepository() PlanRepository {
	return f.GetRepositories().Plan
}

// GetMenuRepository returns the menu repository instance
func (f *Factory) GetMenuRepository() MenuRepository {
	return f.GetRepositories().Menu
}

// GetOrderRepository returns the order repository instance
func (f *Factory) GetOrderRepository() OrderRepository {
	return f.GetRepositories().Order
}

// GetCouponRepository returns the coupon repository instance
func (f *Factory) GetCouponRepository() CouponRepository {
	return f.GetRepositories().Coupon
}

// GetFileRepository returns the file repository instance
func (f *Factory) GetFileRepository() FileRepository {
	return f.GetRepositories().File
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
