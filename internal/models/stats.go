package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WaitlistStats is a point-in-time rollup of the waitlist, written
// periodically by the snapshot job and served to the admin dashboard.
type WaitlistStats struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	TotalSignups      int64           `gorm:"default:0" json:"total_signups"`
	VIPSignups        int64           `gorm:"default:0" json:"vip_signups"`
	TotalReferrals    int64           `gorm:"default:0" json:"total_referrals"`
	MissionsCompleted int64           `gorm:"default:0" json:"missions_completed"`
	AvgPosition       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"avg_position"`
	ReferralRate      decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"referral_rate"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (WaitlistStats) TableName() string {
	return "waitlist_stats"
}
