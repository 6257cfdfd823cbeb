package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
)

// HandleListCoupons returns a branch's coupons.
func HandleListCoupons(c *fiber.Ctx) error {
	branchID := parseUintQuery(c, "branchId")
	if !branchAccessGranted(c, branchID) {
		return nil
	}
	coupons, err := repository.GetGlobalFactory().GetCouponRepository().GetByBranchID(branchID)
	if err != nil {
		return internalError(c, "failed to load coupons")
	}
	return c.JSON(coupons)
}

// HandleCreateCoupon creates a coupon for a branch.
func HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		return badRequest(c, "invalid request body")
	}
	coupon.ID = 0
	if !branchAccessGranted(c, coupon.BranchID) {
		return nil
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.CreatedBy == "" {
		coupon.CreatedBy = models.CouponCreatorBranch
	}
	if coupon.ValidFrom != nil && coupon.ValidTo != nil && coupon.ValidTo.Before(*coupon.ValidFrom) {
		return badRequest(c, "coupon validity window ends before it starts")
	}
	if coupon.DiscountType == models.CouponDiscountPercentage && coupon.Value > 100 {
		return badRequest(c, "percentage discount cannot exceed 100")
	}
	if err := coupon.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalFactory().GetCouponRepository()
	if _, err := repo.GetByCode(coupon.Code); err == nil {
		return badRequest(c, "a coupon with this code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, "failed to check coupon code")
	}

	if err := repo.Create(&coupon); err != nil {
		return internalError(c, "failed to create coupon")
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// HandleUpdateCoupon updates a coupon.
func HandleUpdateCoupon(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "coupon id is required")
	}
	repo := repository.GetGlobalFactory().GetCouponRepository()
	coupon, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "coupon not found")
		}
		return internalError(c, "failed to load coupon")
	}
	if !branchAccessGranted(c, coupon.BranchID) {
		return nil
	}

	var update models.Coupon
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "invalid request body")
	}
	if update.Description != "" {
		coupon.Description = update.Description
	}
	if update.DiscountType != "" {
		coupon.DiscountType = update.DiscountType
	}
	if update.Value > 0 {
		coupon.Value = update.Value
	}
	if update.MinCartValue > 0 {
		coupon.MinCartValue = update.MinCartValue
	}
	coupon.FreeShipping = update.FreeShipping
	if update.ValidFrom != nil {
		coupon.ValidFrom = update.ValidFrom
	}
	if update.ValidTo != nil {
		coupon.ValidTo = update.ValidTo
	}
	if coupon.ValidFrom != nil && coupon.ValidTo != nil && coupon.ValidTo.Before(*coupon.ValidFrom) {
		return badRequest(c, "coupon validity window ends before it starts")
	}
	if coupon.DiscountType == models.CouponDiscountPercentage && coupon.Value > 100 {
		return badRequest(c, "percentage discount cannot exceed 100")
	}
	if err := coupon.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.Update(coupon); err != nil {
		return internalError(c, "failed to update coupon")
	}
	return c.JSON(coupon)
}

// HandleDeleteCoupon deletes a coupon.
func HandleDeleteCoupon(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "coupon id is required")
	}
	repo := repository.GetGlobalFactory().GetCouponRepository()
	coupon, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "coupon not found")
		}
		return internalError(c, "failed to load coupon")
	}
	if !branchAccessGranted(c, coupon.BranchID) {
		return nil
	}
	if err := repo.Delete(id); err != nil {
		return internalError(c, "failed to delete coupon")
	}
	return c.JSON(fiber.Map{"message": "coupon deleted"})
}
