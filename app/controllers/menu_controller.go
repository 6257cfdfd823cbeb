package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/usercontext"
)

// HandleListMenuCategories returns the branch's categories plus global
// ones.
func HandleListMenuCategories(c *fiber.Ctx) error {
	branchID := parseUintQuery(c, "branchId")
	if !branchAccessGranted(c, branchID) {
		return nil
	}
	categories, err := repository.GetGlobalFactory().GetMenuRepository().GetCategoriesForBranch(branchID)
	if err != nil {
		return internalError(c, "failed to load menu categories")
	}
	return c.JSON(categories)
}

// HandleCreateMenuCategory creates a branch-scoped category. Global
// categories can only be created by admins.
func HandleCreateMenuCategory(c *fiber.Ctx) error {
	var category models.MenuCategory
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, "invalid request body")
	}
	category.ID = 0
	if category.IsGlobal {
		if !usercontext.IsAdmin(c) {
			return forbidden(c, "only admins can create global categories")
		}
		category.BranchID = 0
	} else {
		if !branchAccessGranted(c, category.BranchID) {
			return nil
		}
	}
	if err := category.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repository.GetGlobalFactory().GetMenuRepository().CreateCategory(&category); err != nil {
		return internalError(c, "failed to create menu category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateMenuCategory updates a category's name or description.
func HandleUpdateMenuCategory(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "category id is required")
	}
	repo := repository.GetGlobalFactory().GetMenuRepository()
	category, err := repo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "menu category not found")
		}
		return internalError(c, "failed to load menu category")
	}
	if category.IsGlobal {
		if !usercontext.IsAdmin(c) {
			return forbidden(c, "only admins can edit global categories")
		}
	} else if !branchAccessGranted(c, category.BranchID) {
		return nil
	}

	var update models.MenuCategory
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "invalid request body")
	}
	if update.Name != "" {
		category.Name = update.Name
	}
	if update.Description != "" {
		category.Description = update.Description
	}
	if err := category.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.UpdateCategory(category); err != nil {
		return internalError(c, "failed to update menu category")
	}
	return c.JSON(category)
}

// HandleDeleteMenuCategory deletes a category.
func HandleDeleteMenuCategory(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "category id is required")
	}
	repo := repository.GetGlobalFactory().GetMenuRepository()
	category, err := repo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "menu category not found")
		}
		return internalError(c, "failed to load menu category")
	}
	if category.IsGlobal {
		if !usercontext.IsAdmin(c) {
			return forbidden(c, "only admins can delete global categories")
		}
	} else if !branchAccessGranted(c, category.BranchID) {
		return nil
	}
	if err := repo.DeleteCategory(id); err != nil {
		return internalError(c, "failed to delete menu category")
	}
	return c.JSON(fiber.Map{"message": "menu category deleted"})
}

// HandleListMenuItems returns a branch's menu, optionally filtered by
// category.
func HandleListMenuItems(c *fiber.Ctx) error {
	branchID := parseUintQuery(c, "branchId")
	if !branchAccessGranted(c, branchID) {
		return nil
	}
	repo := repository.GetGlobalFactory().GetMenuRepository()

	if categoryID := parseUintQuery(c, "categoryId"); categoryID != 0 {
		items, err := repo.GetItemsByCategory(branchID, categoryID)
		if err != nil {
			return internalError(c, "failed to load menu items")
		}
		return c.JSON(items)
	}

	items, err := repo.GetItemsByBranchID(branchID)
	if err != nil {
		return internalError(c, "failed to load menu items")
	}
	return c.JSON(items)
}

// HandleCreateMenuItem adds a dish to a branch's menu.
func HandleCreateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, "invalid request body")
	}
	item.ID = 0
	if !branchAccessGranted(c, item.BranchID) {
		return nil
	}
	if item.CategoryID == 0 {
		return badRequest(c, "category id is required")
	}
	if !item.HasVariants && item.Price <= 0 {
		return badRequest(c, "a price is required for items without variants")
	}
	if err := item.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repository.GetGlobalFactory().GetMenuRepository().CreateItem(&item); err != nil {
		return internalError(c, "failed to create menu item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateMenuItem updates a dish.
func HandleUpdateMenuItem(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "menu item id is required")
	}
	repo := repository.GetGlobalFactory().GetMenuRepository()
	item, err := repo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "menu item not found")
		}
		return internalError(c, "failed to load menu item")
	}
	if !branchAccessGranted(c, item.BranchID) {
		return nil
	}

	var update models.MenuItem
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "invalid request body")
	}
	if update.Name != "" {
		item.Name = update.Name
	}
	if update.Description != "" {
		item.Description = update.Description
	}
	if update.CategoryID != 0 {
		item.CategoryID = update.CategoryID
	}
	if update.Price > 0 {
		item.Price = update.Price
	}
	if update.ImageURL != "" {
		item.ImageURL = update.ImageURL
	}
	if update.DishType != "" {
		item.DishType = update.DishType
	}
	if update.TaxSlab > 0 {
		item.TaxSlab = update.TaxSlab
	}
	item.IsAvailable = update.IsAvailable
	item.HasVariants = update.HasVariants
	item.Variants = update.Variants
	item.Options = update.Options
	item.AddOns = update.AddOns

	if err := item.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.UpdateItem(item); err != nil {
		return internalError(c, "failed to update menu item")
	}
	return c.JSON(item)
}

// HandleSetMenuItemAvailability flips a dish's availability without
// touching the rest of it.
func HandleSetMenuItemAvailability(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "menu item id is required")
	}
	repo := repository.GetGlobalFactory().GetMenuRepository()
	item, err := repo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "menu item not found")
		}
		return internalError(c, "failed to load menu item")
	}
	if !branchAccessGranted(c, item.BranchID) {
		return nil
	}

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := repo.SetItemAvailability(id, req.IsAvailable); err != nil {
		return internalError(c, "failed to update availability")
	}
	return c.JSON(fiber.Map{"id": id, "is_available": req.IsAvailable})
}

// HandleDeleteMenuItem removes a dish from the menu.
func HandleDeleteMenuItem(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "menu item id is required")
	}
	repo := repository.GetGlobalFactory().GetMenuRepository()
	item, err := repo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "menu item not found")
		}
		return internalError(c, "failed to load menu item")
	}
	if !branchAccessGranted(c, item.BranchID) {
		return nil
	}
	if err := repo.DeleteItem(id); err != nil {
		return internalError(c, "failed to delete menu item")
	}
	return c.JSON(fiber.Map{"message": "menu item deleted"})
}
