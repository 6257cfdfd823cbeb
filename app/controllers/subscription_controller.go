package controllers

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/billing"
	"github.com/roll2bowl/partner-api/internal/pkg/database"
	"github.com/roll2bowl/partner-api/internal/pkg/events"
	"github.com/roll2bowl/partner-api/internal/pkg/payments"
	"github.com/roll2bowl/partner-api/internal/pkg/statistics"
)

var (
	billingSvc     *billing.Service
	billingSvcOnce sync.Once

	eventsProducer *events.Producer
)

// SetEventsProducer injects the optional event producer, called once at
// startup.
func SetEventsProducer(p *events.Producer) {
	eventsProducer = p
}

// SetBillingService overrides the billing service, used by tests.
func SetBillingService(s *billing.Service) {
	billingSvc = s
	billingSvcOnce.Do(func() {})
}

func getBillingService() *billing.Service {
	billingSvcOnce.Do(func() {
		if billingSvc == nil {
			billingSvc = billing.NewServiceFromDB(database.GetDB())
		}
	})
	return billingSvc
}

// HandleSubscriptionStatus returns the branch's reconciled current
// subscription with usage metrics, or hasSubscription=false when the
// branch has none.
func HandleSubscriptionStatus(c *fiber.Ctx) error {
	branchID := parseUintQuery(c, "branchId")
	if !branchAccessGranted(c, branchID) {
		return nil
	}

	reconciled, ok, err := getBillingService().CurrentSubscription(c.Context(), branchID)
	if err != nil {
		return internalError(c, "failed to load subscription status")
	}
	if !ok {
		return c.JSON(fiber.Map{"hasSubscription": false})
	}

	return c.JSON(fiber.Map{
		"hasSubscription":  true,
		"subscription":     reconciled.Record,
		"maxOrders":        reconciled.MaxOrders,
		"remainingOrders":  reconciled.RemainingOrders,
		"usagePercentage":  reconciled.UsagePercentage,
		"creditsLow":       reconciled.IsCreditsLow(),
		"creditsExhausted": reconciled.IsCreditsExhausted(),
		"warningSeverity":  reconciled.WarningSeverity(),
	})
}

// HandleListPlans returns all active subscription plans.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().GetActive()
	if err != nil {
		return internalError(c, "failed to load subscription plans")
	}
	return c.JSON(plans)
}

// HandleUpdatePlan updates a subscription plan definition (admin only,
// enforced by the route).
func HandleUpdatePlan(c *fiber.Ctx) error {
	planID := parseUintParam(c, "id")
	if planID == 0 {
		return badRequest(c, "plan id is required")
	}
	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "plan not found")
		}
		return internalError(c, "failed to load plan")
	}

	var update models.SubscriptionPlan
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "invalid request body")
	}
	if update.PlanName != "" {
		plan.PlanName = update.PlanName
	}
	if update.Description != "" {
		plan.Description = update.Description
	}
	if update.Price > 0 {
		plan.Price = update.Price
	}
	if update.MaxOrders > 0 {
		plan.MaxOrders = update.MaxOrders
	}
	if update.DurationInDays > 0 {
		plan.DurationInDays = update.DurationInDays
	}
	plan.IsActive = update.IsActive

	if err := plan.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.Update(plan); err != nil {
		return internalError(c, "failed to update plan")
	}
	return c.JSON(plan)
}

type topUpRequest struct {
	BranchID         uint `json:"branchId"`
	AdditionalOrders int  `json:"additionalOrders"`
}

// HandleTopUp opens a checkout order for additional order credits.
func HandleTopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !branchAccessGranted(c, req.BranchID) {
		return nil
	}
	result, err := getBillingService().CreateTopUpIntent(c.Context(), req.BranchID, req.AdditionalOrders)
	if err != nil {
		return billingIntentError(c, err)
	}
	return c.JSON(result)
}

type renewRequest struct {
	BranchID uint `json:"branchId"`
}

// HandleRenew opens a checkout order renewing the current subscription.
func HandleRenew(c *fiber.Ctx) error {
	var req renewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !branchAccessGranted(c, req.BranchID) {
		return nil
	}
	result, err := getBillingService().CreateRenewIntent(c.Context(), req.BranchID)
	if err != nil {
		return billingIntentError(c, err)
	}
	return c.JSON(result)
}

type upgradeRequest struct {
	BranchID          uint `json:"branchId"`
	NewSubscriptionID uint `json:"newSubscriptionId"`
}

// HandleUpgrade opens a checkout order switching the branch to a new plan.
func HandleUpgrade(c *fiber.Ctx) error {
	var req upgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !branchAccessGranted(c, req.BranchID) {
		return nil
	}
	result, err := getBillingService().CreateUpgradeIntent(c.Context(), req.BranchID, req.NewSubscriptionID)
	if err != nil {
		return billingIntentError(c, err)
	}
	return c.JSON(result)
}

type purchaseRequest struct {
	BranchID       uint `json:"branchId"`
	SubscriptionID uint `json:"subscriptionId"`
}

// HandlePurchase opens a checkout order for a branch's first subscription.
func HandlePurchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !branchAccessGranted(c, req.BranchID) {
		return nil
	}
	result, err := getBillingService().CreatePurchaseIntent(c.Context(), req.BranchID, req.SubscriptionID)
	if err != nil {
		return billingIntentError(c, err)
	}
	return c.JSON(result)
}

// HandleVerifyTopUp verifies a top-up checkout receipt.
func HandleVerifyTopUp(c *fiber.Ctx) error {
	return handleVerify(c, models.PaymentKindTopUp)
}

// HandleVerifyRenew verifies a renewal checkout receipt.
func HandleVerifyRenew(c *fiber.Ctx) error {
	return handleVerify(c, models.PaymentKindRenew)
}

// HandleVerifyUpgrade verifies an upgrade checkout receipt.
func HandleVerifyUpgrade(c *fiber.Ctx) error {
	return handleVerify(c, models.PaymentKindUpgrade)
}

// HandleVerifyPurchase verifies a purchase checkout receipt.
func HandleVerifyPurchase(c *fiber.Ctx) error {
	return handleVerify(c, models.PaymentKindPurchase)
}

func handleVerify(c *fiber.Ctx, kind string) error {
	var receipt payments.Receipt
	if err := c.BodyParser(&receipt); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !receipt.Complete() {
		return badRequest(c, "payment id, order id and signature are all required")
	}

	result, err := getBillingService().VerifyPayment(c.Context(), kind, receipt)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrUnknownPaymentOrder):
			return notFound(c, "unknown payment order")
		case errors.Is(err, billing.ErrKindMismatch):
			return badRequest(c, "payment was created for a different billing action")
		case errors.Is(err, billing.ErrVerificationFailed):
			if eventsProducer != nil {
				eventsProducer.Publish(events.EventPaymentFailed, 0, fiber.Map{
					"kind":    kind,
					"orderId": receipt.RazorpayOrderID,
				})
			}
			return jsonError(c, fiber.StatusBadRequest, "verification_failed",
				"payment verification failed; if you were charged, the amount will be reconciled manually")
		default:
			return internalError(c, "failed to verify payment")
		}
	}

	statistics.InvalidateBranchStats(result.Order.BranchID)

	if eventsProducer != nil {
		eventsProducer.Publish(events.EventPaymentVerified, result.Order.BranchID, fiber.Map{
			"kind":    result.Order.Kind,
			"orderId": result.Order.RazorpayOrderID,
			"amount":  result.Order.Amount,
		})
		if kind == models.PaymentKindPurchase {
			eventsProducer.Publish(events.EventSubscriptionSetup, result.Order.BranchID, fiber.Map{
				"orderId": result.Order.RazorpayOrderID,
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": result.Notice,
		"kind":    result.Order.Kind,
		"status":  result.Order.Status,
	})
}

type cancelPaymentRequest struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
}

// HandleCancelPayment marks a checkout as dismissed by the user.
func HandleCancelPayment(c *fiber.Ctx) error {
	var req cancelPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RazorpayOrderID == "" {
		return badRequest(c, "razorpay order id is required")
	}
	if err := getBillingService().CancelPayment(c.Context(), req.RazorpayOrderID); err != nil {
		if errors.Is(err, billing.ErrUnknownPaymentOrder) {
			return notFound(c, "unknown payment order")
		}
		return internalError(c, "failed to cancel payment")
	}
	return c.JSON(fiber.Map{"message": "payment cancelled"})
}

func billingIntentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrBranchRequired),
		errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrPlanRequired),
		errors.Is(err, billing.ErrNoCurrentSubscription),
		errors.Is(err, billing.ErrNoResolvablePrice):
		return badRequest(c, err.Error())
	default:
		return internalError(c, "failed to create payment order")
	}
}
