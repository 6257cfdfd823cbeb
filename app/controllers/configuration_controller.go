package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/internal/pkg/database"

	"gorm.io/gorm"
)

// HandleGetConfiguration returns the client-facing configuration values.
// Missing entries fall back to their hardcoded defaults so the clients
// never see an empty config.
func HandleGetConfiguration(c *fiber.Ctx) error {
	perOrderValue := models.DefaultPerOrderValue

	var cfg models.Configuration
	err := database.GetDB().Where("name = ?", models.ConfigPerOrderValue).First(&cfg).Error
	if err == nil && cfg.Value > 0 {
		perOrderValue = cfg.Value
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, "failed to load configuration")
	}

	return c.JSON(fiber.Map{
		models.ConfigPerOrderValue: perOrderValue,
	})
}
