package statistics

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/internal/pkg/cache"
	"github.com/roll2bowl/partner-api/internal/pkg/database"
)

const (
	CacheKeyBranchStats = "statistics:branch:%d" // format with branch id
	CacheKeyDailyOrders = "statistics:branch:%d:daily:%s"
	CacheExpiration     = 30 * time.Minute
)

// GetBranchStats returns the dashboard aggregates for a branch, served
// from cache when fresh.
func GetBranchStats(branchID uint) (*models.BranchStats, error) {
	key := fmt.Sprintf(CacheKeyBranchStats, branchID)
	if val, err := cache.Get(key); err == nil && val != "" {
		var stats models.BranchStats
		if err := json.Unmarshal([]byte(val), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := computeBranchStats(branchID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := cache.Set(key, string(payload), CacheExpiration); err != nil {
			log.Printf("Error caching branch stats for %d: %v", branchID, err)
		}
	}
	return stats, nil
}

// InvalidateBranchStats drops the cached aggregates so the next read
// recomputes them. Called after anything that changes order or payout
// state.
func InvalidateBranchStats(branchID uint) {
	if err := cache.Delete(fmt.Sprintf(CacheKeyBranchStats, branchID)); err != nil {
		log.Printf("Error invalidating branch stats for %d: %v", branchID, err)
	}
}

func computeBranchStats(branchID uint) (*models.BranchStats, error) {
	db := database.GetDB()
	stats := &models.BranchStats{}

	if err := db.Model(&models.Order{}).
		Where("branch_id = ?", branchID).
		Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).
		Where("branch_id = ? AND status = ?", branchID, models.OrderStatusDelivered).
		Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).
		Where("branch_id = ? AND status IN ?", branchID,
			[]string{models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing}).
		Count(&stats.PendingPreparingOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).
		Where("branch_id = ? AND status = ?", branchID, models.OrderStatusCancelled).
		Count(&stats.CancelledOrders).Error; err != nil {
		return nil, err
	}

	// Revenue counts delivered orders only; cancelled and in-flight ones
	// are excluded.
	var revenue *float64
	if err := db.Model(&models.Order{}).
		Where("branch_id = ? AND status = ?", branchID, models.OrderStatusDelivered).
		Select("SUM(total)").Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}

	var previous models.Payout
	err := db.Where("branch_id = ? AND status = ?", branchID, models.PayoutStatusPaid).
		Order("paid_at desc").First(&previous).Error
	if err == nil {
		stats.PreviousPayout = previous.NetPayout
	}

	var next models.Payout
	err = db.Where("branch_id = ? AND status = ?", branchID, models.PayoutStatusScheduled).
		Order("scheduled_at asc").First(&next).Error
	if err == nil {
		stats.NextPayout = &next
	}

	return stats, nil
}

// GetBranchBalance returns the delivered revenue a branch has earned
// since its last paid payout. Not cached; it feeds settlement screens
// that need live numbers.
func GetBranchBalance(branchID uint) (*models.BranchBalance, error) {
	db := database.GetDB()
	balance := &models.BranchBalance{}

	var last models.Payout
	query := db.Model(&models.Order{}).
		Where("branch_id = ? AND status = ?", branchID, models.OrderStatusDelivered)
	err := db.Where("branch_id = ? AND status = ?", branchID, models.PayoutStatusPaid).
		Order("paid_at desc").First(&last).Error
	if err == nil && last.PaidAt != nil {
		balance.LastPayoutAt = last.PaidAt
		query = query.Where("created_at > ?", *last.PaidAt)
	}

	var revenue *float64
	if err := query.Select("SUM(total)").Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		balance.Balance = *revenue
	}
	return balance, nil
}

// GetDailyOrderCounts returns per-day order counts for the last n days,
// oldest first.
func GetDailyOrderCounts(branchID uint, days int) ([]models.DailyStats, error) {
	if days <= 0 {
		days = 7
	}
	today := time.Now().Format("2006-01-02")
	key := fmt.Sprintf(CacheKeyDailyOrders, branchID, today)
	if val, err := cache.Get(key); err == nil && val != "" {
		var out []models.DailyStats
		if err := json.Unmarshal([]byte(val), &out); err == nil && len(out) == days {
			return out, nil
		}
	}

	db := database.GetDB()
	out := make([]models.DailyStats, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.Add(24 * time.Hour)

		var count int64
		if err := db.Model(&models.Order{}).
			Where("branch_id = ? AND created_at >= ? AND created_at < ?", branchID, dayStart, dayEnd).
			Count(&count).Error; err != nil {
			return nil, err
		}
		out = append(out, models.DailyStats{Date: dayStart.Format("2006-01-02"), Count: int(count)})
	}

	if payload, err := json.Marshal(out); err == nil {
		if err := cache.Set(key, string(payload), CacheExpiration); err != nil {
			log.Printf("Error caching daily order counts for %d: %v", branchID, err)
		}
	}
	return out, nil
}
