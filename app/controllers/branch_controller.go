package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/usercontext"
)

// HandleListBranches returns the requesting user's branches. Admins can
// filter by restaurantId or list everything.
func HandleListBranches(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetBranchRepository()

	if restaurantID := parseUintQuery(c, "restaurantId"); restaurantID != 0 {
		restaurants := repository.GetGlobalFactory().GetRestaurantRepository()
		restaurant, err := restaurants.GetByID(restaurantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "restaurant not found")
			}
			return internalError(c, "failed to load restaurant")
		}
		if !userCtx.IsAdmin && restaurant.OwnerID != userCtx.UserID {
			return forbidden(c, "restaurant does not belong to you")
		}
		branches, err := repo.GetByRestaurantID(restaurantID)
		if err != nil {
			return internalError(c, "failed to load branches")
		}
		return c.JSON(branches)
	}

	if userCtx.IsAdmin {
		offset, limit := parsePagination(c)
		branches, err := repo.List(offset, limit)
		if err != nil {
			return internalError(c, "failed to load branches")
		}
		return c.JSON(branches)
	}

	branches, err := repo.GetByOwnerID(userCtx.UserID)
	if err != nil {
		return internalError(c, "failed to load branches")
	}
	return c.JSON(branches)
}

// HandleGetBranch returns one branch with its restaurant.
func HandleGetBranch(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if !branchAccessGranted(c, id) {
		return nil
	}
	branch, err := repository.GetGlobalFactory().GetBranchRepository().GetByID(id)
	if err != nil {
		return internalError(c, "failed to load branch")
	}
	return c.JSON(branch)
}

// HandleCreateBranch creates a branch under one of the user's
// restaurants.
func HandleCreateBranch(c *fiber.Ctx) error {
	var branch models.Branch
	if err := c.BodyParser(&branch); err != nil {
		return badRequest(c, "invalid request body")
	}
	branch.ID = 0
	if branch.RestaurantID == 0 {
		return badRequest(c, "restaurant id is required")
	}

	restaurants := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := restaurants.GetByID(branch.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "restaurant not found")
		}
		return internalError(c, "failed to load restaurant")
	}
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsAdmin && restaurant.OwnerID != userCtx.UserID {
		return forbidden(c, "restaurant does not belong to you")
	}

	if err := branch.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repository.GetGlobalFactory().GetBranchRepository().Create(&branch); err != nil {
		return internalError(c, "failed to create branch")
	}
	return c.Status(fiber.StatusCreated).JSON(branch)
}

// HandleUpdateBranch updates a branch's details.
func HandleUpdateBranch(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if !branchAccessGranted(c, id) {
		return nil
	}
	repo := repository.GetGlobalFactory().GetBranchRepository()
	branch, err := repo.GetByID(id)
	if err != nil {
		return internalError(c, "failed to load branch")
	}

	var update models.Branch
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "invalid request body")
	}
	if update.Name != "" {
		branch.Name = update.Name
	}
	if update.Address != "" {
		branch.Address = update.Address
	}
	if update.Phone != "" {
		branch.Phone = update.Phone
	}
	branch.IsActive = update.IsActive
	branch.Restaurant = nil

	if err := branch.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.Update(branch); err != nil {
		return internalError(c, "failed to update branch")
	}
	return c.JSON(branch)
}

// HandleDeleteBranch soft-deletes a branch.
func HandleDeleteBranch(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if !branchAccessGranted(c, id) {
		return nil
	}
	if err := repository.GetGlobalFactory().GetBranchRepository().Delete(id); err != nil {
		return internalError(c, "failed to delete branch")
	}
	return c.JSON(fiber.Map{"message": "branch deleted"})
}
