package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bloxtalent-waitlist/internal/models"
)

// StatsService computes waitlist rollups for the admin dashboard and for the
// periodic snapshot job.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsService
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Compute builds a live rollup of the waitlist without persisting it
func (s *StatsService) Compute() (*models.WaitlistStats, error) {
	stats := &models.WaitlistStats{
		AvgPosition:  decimal.Zero,
		ReferralRate: decimal.Zero,
	}

	if err := s.db.Model(&models.WaitlistSignup{}).Count(&stats.TotalSignups).Error; err != nil {
		return nil, fmt.Errorf("failed to count signups: %w", err)
	}

	if err := s.db.Model(&models.WaitlistSignup{}).
		Where("priority_tier = ?", models.TierVIP).
		Count(&stats.VIPSignups).Error; err != nil {
		return nil, fmt.Errorf("failed to count vip signups: %w", err)
	}

	if err := s.db.Model(&models.Referral{}).Count(&stats.TotalReferrals).Error; err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}

	if err := s.db.Model(&models.MissionCompletion{}).Count(&stats.MissionsCompleted).Error; err != nil {
		return nil, fmt.Errorf("failed to count mission completions: %w", err)
	}

	if stats.TotalSignups > 0 {
		var avg float64
		row := s.db.Model(&models.WaitlistSignup{}).
			Select("COALESCE(AVG(position_in_queue), 0)").Row()
		if err := row.Scan(&avg); err != nil {
			return nil, fmt.Errorf("failed to average positions: %w", err)
		}
		stats.AvgPosition = decimal.NewFromFloat(avg).Round(2)

		// Share of signups that arrived through a referral link
		stats.ReferralRate = decimal.NewFromInt(stats.TotalReferrals).
			Div(decimal.NewFromInt(stats.TotalSignups)).
			Round(4)
	}

	return stats, nil
}

// Snapshot computes the rollup and persists it as a new snapshot row
func (s *StatsService) Snapshot() (*models.WaitlistStats, error) {
	stats, err := s.Compute()
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(stats).Error; err != nil {
		return nil, fmt.Errorf("failed to store stats snapshot: %w", err)
	}

	return stats, nil
}

// Latest returns the most recent persisted snapshot, or nil if none exists
func (s *StatsService) Latest() (*models.WaitlistStats, error) {
	var stats models.WaitlistStats
	err := s.db.Order("created_at DESC").First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
