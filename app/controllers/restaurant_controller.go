package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/usercontext"
)

// HandleListRestaurants returns the restaurants owned by the requesting
// user, or all restaurants for admins.
func HandleListRestaurants(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetRestaurantRepository()

	if userCtx.IsAdmin {
		offset, limit := parsePagination(c)
		restaurants, err := repo.List(offset, limit)
		if err != nil {
			return internalError(c, "failed to load restaurants")
		}
		return c.JSON(restaurants)
	}

	restaurants, err := repo.GetByOwnerID(userCtx.UserID)
	if err != nil {
		return internalError(c, "failed to load restaurants")
	}
	return c.JSON(restaurants)
}

// HandleListRestaurantsWithBranches returns the user's restaurants with
// their branches preloaded, the shape the branch-switcher consumes.
func HandleListRestaurantsWithBranches(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetRestaurantRepository()

	restaurants, err := repo.GetByOwnerIDWithBranches(userCtx.UserID)
	if err != nil {
		return internalError(c, "failed to load restaurants")
	}
	return c.JSON(restaurants)
}

// HandleGetRestaurant returns one restaurant.
func HandleGetRestaurant(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "restaurant id is required")
	}
	restaurant, err := repository.GetGlobalFactory().GetRestaurantRepository().GetByID(id)
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
	return c.JSON(restaurant)
}

// HandleCreateRestaurant creates a restaurant owned by the requesting
// user.
func HandleCreateRestaurant(c *fiber.Ctx) error {
	var restaurant models.Restaurant
	if err := c.BodyParser(&restaurant); err != nil {
		return badRequest(c, "invalid request body")
	}
	restaurant.ID = 0
	restaurant.OwnerID = usercontext.GetUserID(c)
	if restaurant.Status == "" {
		restaurant.Status = "active"
	}
	if err := restaurant.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repository.GetGlobalFactory().GetRestaurantRepository().Create(&restaurant); err != nil {
		return internalError(c, "failed to create restaurant")
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

// HandleUpdateRestaurant updates a restaurant's details.
func HandleUpdateRestaurant(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "restaurant id is required")
	}
	repo := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := repo.GetByID(id)
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

	var update models.Restaurant
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "invalid request body")
	}
	if update.Name != "" {
		restaurant.Name = update.Name
	}
	if update.Address != "" {
		restaurant.Address = update.Address
	}
	if update.Phone != "" {
		restaurant.Phone = update.Phone
	}
	if update.Email != "" {
		restaurant.Email = update.Email
	}
	if update.Status != "" {
		restaurant.Status = update.Status
	}
	if err := restaurant.Validate(); err != nil {
		return badRequest(c, err.Error())
	}
	if err := repo.Update(restaurant); err != nil {
		return internalError(c, "failed to update restaurant")
	}
	return c.JSON(restaurant)
}

// HandleDeleteRestaurant soft-deletes a restaurant.
func HandleDeleteRestaurant(c *fiber.Ctx) error {
	id := parseUintParam(c, "id")
	if id == 0 {
		return badRequest(c, "restaurant id is required")
	}
	repo := repository.GetGlobalFactory().GetRestaurantRepository()
	restaurant, err := repo.GetByID(id)
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
	if err := repo.Delete(id); err != nil {
		return internalError(c, "failed to delete restaurant")
	}
	return c.JSON(fiber.Map{"message": "restaurant deleted"})
}
