package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roll2bowl/partner-api/internal/pkg/statistics"
)

// HandleBranchStats returns the dashboard aggregates for a branch.
func HandleBranchStats(c *fiber.Ctx) error {
	branchID := parseUintParam(c, "id")
	if !branchAccessGranted(c, branchID) {
		return nil
	}

	stats, err := statistics.GetBranchStats(branchID)
	if err != nil {
		return internalError(c, "failed to load branch statistics")
	}
	return c.JSON(stats)
}

// HandleBranchBalance returns the unsettled delivered revenue for a
// branch.
func HandleBranchBalance(c *fiber.Ctx) error {
	branchID := parseUintParam(c, "id")
	if !branchAccessGranted(c, branchID) {
		return nil
	}

	balance, err := statistics.GetBranchBalance(branchID)
	if err != nil {
		return internalError(c, "failed to load branch balance")
	}
	return c.JSON(balance)
}

// HandleBranchDailyStats returns per-day order counts for admin charts.
func HandleBranchDailyStats(c *fiber.Ctx) error {
	branchID := parseUintParam(c, "id")
	if !branchAccessGranted(c, branchID) {
		return nil
	}

	days := c.QueryInt("days", 7)
	counts, err := statistics.GetDailyOrderCounts(branchID, days)
	if err != nil {
		return internalError(c, "failed to load daily statistics")
	}
	return c.JSON(counts)
}
