package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/roll2bowl/partner-api/app/controllers"
	"github.com/roll2bowl/partner-api/internal/pkg/authtoken"
	"github.com/roll2bowl/partner-api/internal/pkg/middleware"
)

// BaseRouter installs the cross-cutting middleware every API route
// depends on.
type BaseRouter struct {
}

func (h BaseRouter) InstallRouter(app *fiber.App) {
	// init bearer token store
	authtoken.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)
}

func NewBaseRouter() *BaseRouter {
	return &BaseRouter{}
}

// ApiRouter registers every partner API endpoint. Paths are kept stable
// for the existing admin clients.
type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Login endpoints are rate limited harder than the rest.
	app.Post("/login", limiter.New(limiter.Config{Max: 10}), controllers.HandleLogin)
	app.Post("/verify-login", limiter.New(limiter.Config{Max: 20}), controllers.HandleVerifyLogin)

	app.Get("/auth/me", middleware.RequireAuth, controllers.HandleMe)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)

	// Public configuration consumed by the clients before login.
	app.Get("/configuration", controllers.HandleGetConfiguration)

	// Subscription status and plans.
	app.Get("/subscription-status", middleware.RequireAuth, controllers.HandleSubscriptionStatus)
	app.Get("/subscriptions", middleware.RequireAuth, controllers.HandleListPlans)
	app.Put("/subscription/:id", middleware.RequireAdmin, controllers.HandleUpdatePlan)

	// Billing actions, each paired with its verify callback.
	app.Post("/subscription-topup", middleware.RequireAuth, controllers.HandleTopUp)
	app.Post("/verify-topup-payment", middleware.RequireAuth, controllers.HandleVerifyTopUp)
	app.Post("/renew", middleware.RequireAuth, controllers.HandleRenew)
	app.Post("/verify-renew-payment", middleware.RequireAuth, controllers.HandleVerifyRenew)
	app.Post("/subscription/upgrade", middleware.RequireAuth, controllers.HandleUpgrade)
	app.Post("/verify-upgrade-payment", middleware.RequireAuth, controllers.HandleVerifyUpgrade)
	app.Post("/subscription/purchase", middleware.RequireAuth, controllers.HandlePurchase)
	app.Post("/verify-purchase-payment", middleware.RequireAuth, controllers.HandleVerifyPurchase)
	app.Post("/subscription/payment-cancel", middleware.RequireAuth, controllers.HandleCancelPayment)

	// Dashboard statistics.
	app.Get("/branch-stats/:id", middleware.RequireAuth, controllers.HandleBranchStats)
	app.Get("/branch-stats/:id/daily", middleware.RequireAuth, controllers.HandleBranchDailyStats)
	app.Get("/branch-balance/:id", middleware.RequireAuth, controllers.HandleBranchBalance)

	// Restaurants and branches.
	app.Get("/restaurants", middleware.RequireAuth, controllers.HandleListRestaurants)
	app.Get("/restaurants-branches", middleware.RequireAuth, controllers.HandleListRestaurantsWithBranches)
	app.Post("/restaurant", middleware.RequireAuth, controllers.HandleCreateRestaurant)
	app.Get("/restaurant/:id", middleware.RequireAuth, controllers.HandleGetRestaurant)
	app.Put("/restaurant/:id", middleware.RequireAuth, controllers.HandleUpdateRestaurant)
	app.Delete("/restaurant/:id", middleware.RequireAuth, controllers.HandleDeleteRestaurant)

	app.Get("/branches", middleware.RequireAuth, controllers.HandleListBranches)
	app.Post("/branch", middleware.RequireAuth, controllers.HandleCreateBranch)
	app.Get("/branch/:id", middleware.RequireAuth, controllers.HandleGetBranch)
	app.Put("/branch/:id", middleware.RequireAuth, controllers.HandleUpdateBranch)
	app.Delete("/branch/:id", middleware.RequireAuth, controllers.HandleDeleteBranch)

	// Menu management.
	app.Get("/menu-categories", middleware.RequireAuth, controllers.HandleListMenuCategories)
	app.Post("/menu-category", middleware.RequireAuth, controllers.HandleCreateMenuCategory)
	app.Put("/menu-category/:id", middleware.RequireAuth, controllers.HandleUpdateMenuCategory)
	app.Delete("/menu-category/:id", middleware.RequireAuth, controllers.HandleDeleteMenuCategory)

	app.Get("/menu-items", middleware.RequireAuth, controllers.HandleListMenuItems)
	app.Post("/menu-item", middleware.RequireAuth, controllers.HandleCreateMenuItem)
	app.Put("/menu-item/:id", middleware.RequireAuth, controllers.HandleUpdateMenuItem)
	app.Patch("/menu-item/:id/availability", middleware.RequireAuth, controllers.HandleSetMenuItemAvailability)
	app.Delete("/menu-item/:id", middleware.RequireAuth, controllers.HandleDeleteMenuItem)

	// Orders.
	app.Get("/orders", middleware.RequireAuth, controllers.HandleListOrders)
	app.Post("/order", middleware.RequireAuth, controllers.HandleCreateOrder)
	app.Get("/order/:id", middleware.RequireAuth, controllers.HandleGetOrder)
	app.Patch("/order/:id/status", middleware.RequireAuth, controllers.HandleUpdateOrderStatus)
	app.Patch("/order/:id/payment-status", middleware.RequireAuth, controllers.HandleUpdateOrderPaymentStatus)

	// Coupons.
	app.Get("/coupons", middleware.RequireAuth, controllers.HandleListCoupons)
	app.Post("/coupon", middleware.RequireAuth, controllers.HandleCreateCoupon)
	app.Put("/coupon/:id", middleware.RequireAuth, controllers.HandleUpdateCoupon)
	app.Delete("/coupon/:id", middleware.RequireAuth, controllers.HandleDeleteCoupon)

	// File uploads.
	app.Post("/upload", middleware.RequireAuth, controllers.HandleUpload)
	app.Get("/download/:uuid", middleware.RequireAuth, controllers.HandleDownloadFile)
	app.Delete("/file/:uuid", middleware.RequireAuth, controllers.HandleDeleteFile)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
