package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/events"
	"github.com/roll2bowl/partner-api/internal/pkg/statistics"
)

// HandleListOrders returns a branch's orders, newest first, optionally
// filtered by status.
func HandleListOrders(c *fiber.Ctx) error {
	branchID := parseUintQuery(c, "branchId")
	if !branchAccessGranted(c, branchID) {
		return nil
	}
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetOrderRepository()

	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		return badRequest(c, "unknown order status")
	}

	var (
		orders []models.Order
		err    error
	)
	if status != "" {
		orders, err = repo.GetByBranchIDAndStatus(branchID, status, offset, limit)
	} else {
		orders, err = repo.GetByBranchID(branchID, offset, limit)
	}
	if err != nil {
		return internalError(c, "failed to load orders")
	}
	return c.JSON(orders)
}

// HandleGetOrder returns one order.
func HandleGetOrder(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "order id is required")
	}
	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "order not found")
		}
		return internalError(c, "failed to load order")
	}
	if !branchAccessGranted(c, order.BranchID) {
		return nil
	}
	return c.JSON(order)
}

// HandleCreateOrder records a customer order against a branch.
func HandleCreateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		return badRequest(c, "invalid request body")
	}
	order.ID = 0
	if !branchAccessGranted(c, order.BranchID) {
		return nil
	}
	if len(order.Items.Data) == 0 {
		return badRequest(c, "an order needs at least one item")
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if !models.ValidOrderStatus(order.Status) {
		return badRequest(c, "unknown order status")
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.OrderPaymentPending
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.OrderMethodCash
	}
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber()
	}
	recalcOrderTotals(&order)

	if err := repository.GetGlobalFactory().GetOrderRepository().Create(&order); err != nil {
		return internalError(c, "failed to create order")
	}

	// Each placed order consumes one credit from the branch's current
	// subscription window. The order itself is never rejected for a
	// missing or exhausted subscription; the dashboard flags carry that.
	if err := getBillingService().ConsumeOrderCredit(c.Context(), order.BranchID); err != nil {
		log.Printf("order %s: failed to consume subscription credit: %v", order.OrderNumber, err)
	}

	statistics.InvalidateBranchStats(order.BranchID)
	if eventsProducer != nil {
		eventsProducer.Publish(events.EventOrderPlaced, order.BranchID, fiber.Map{
			"orderNumber": order.OrderNumber,
			"total":       order.Total,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus moves an order through its lifecycle.
func HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "order id is required")
	}
	repo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "order not found")
		}
		return internalError(c, "failed to load order")
	}
	if !branchAccessGranted(c, order.BranchID) {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !models.ValidOrderStatus(req.Status) {
		return badRequest(c, "unknown order status")
	}
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return badRequest(c, "order is already finalized")
	}

	if err := repo.UpdateStatus(id, req.Status); err != nil {
		return internalError(c, "failed to update order status")
	}

	statistics.InvalidateBranchStats(order.BranchID)
	if eventsProducer != nil {
		eventsProducer.Publish(events.EventOrderStatusChange, order.BranchID, fiber.Map{
			"orderNumber": order.OrderNumber,
			"from":        order.Status,
			"to":          req.Status,
		})
	}
	return c.JSON(fiber.Map{"id": id, "status": req.Status})
}

// HandleUpdateOrderPaymentStatus records a payment state change for an
// order.
func HandleUpdateOrderPaymentStatus(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "order id is required")
	}
	repo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "order not found")
		}
		return internalError(c, "failed to load order")
	}
	if !branchAccessGranted(c, order.BranchID) {
		return nil
	}

	var req struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !models.ValidPaymentStatus(req.PaymentStatus) {
		return badRequest(c, "unknown payment status")
	}
	if err := repo.UpdatePaymentStatus(id, req.PaymentStatus); err != nil {
		return internalError(c, "failed to update payment status")
	}
	statistics.InvalidateBranchStats(order.BranchID)
	return c.JSON(fiber.Map{"id": id, "payment_status": req.PaymentStatus})
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		uuid.NewString()[:8])
}

func recalcOrderTotals(order *models.Order) {
	var subtotal float64
	for i := range order.Items.Data {
		item := &order.Items.Data[i]
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		item.TotalPrice = float64(item.Quantity) * item.UnitPrice
		subtotal += item.TotalPrice
	}
	order.Subtotal = subtotal
	order.Total = subtotal + order.Tax + order.DeliveryFee
}
