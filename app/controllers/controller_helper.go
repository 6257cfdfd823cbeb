package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/usercontext"
)

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusBadRequest, "bad_request", message)
}

func notFound(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusNotFound, "not_found", message)
}

func internalError(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", message)
}

func forbidden(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusForbidden, "forbidden", message)
}

// parseUintParam reads a numeric route parameter, returning 0 when it is
// missing or malformed.
func parseUintParam(c *fiber.Ctx, name string) uint {
	return parseUintValue(c.Params(name))
}

// parseUintQuery reads a numeric query parameter.
func parseUintQuery(c *fiber.Ctx, name string) uint {
	return parseUintValue(c.Query(name))
}

func parseUintValue(raw string) uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// parsePagination reads offset/limit query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (int, int) {
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}

// branchAccessGranted checks that the branch exists and belongs to the
// requesting user, writing the error response itself when it does not.
// Admins bypass the ownership check.
func branchAccessGranted(c *fiber.Ctx, branchID uint) bool {
	if branchID == 0 {
		_ = badRequest(c, "branch id is required")
		return false
	}
	userCtx := usercontext.GetUserContext(c)

	branches := repository.GetGlobalFactory().GetBranchRepository()
	if _, err := branches.GetByID(branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = notFound(c, "branch not found")
		} else {
			_ = internalError(c, "failed to load branch")
		}
		return false
	}

	if userCtx.IsAdmin {
		return true
	}
	owned, err := branches.OwnedBy(branchID, userCtx.UserID)
	if err != nil {
		_ = internalError(c, "failed to check branch ownership")
		return false
	}
	if !owned {
		_ = forbidden(c, "branch does not belong to you")
		return false
	}
	return true
}
