package models

import (
	"time"
)

// MissionCompletion records that a signup claimed the reward for one mission.
// The composite unique index is what makes mission credit idempotent: a second
// claim for the same (signup, mission) pair fails the insert and no reward is
// re-applied.
type MissionCompletion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SignupID      uint      `gorm:"not null;uniqueIndex:ux_signup_mission,priority:1" json:"signup_id"`
	MissionType   string    `gorm:"size:30;not null;uniqueIndex:ux_signup_mission,priority:2" json:"mission_type"`
	RewardApplied int       `gorm:"not null" json:"reward_applied"`
	CreatedAt     time.Time `json:"created_at"`
}

func (MissionCompletion) TableName() string {
	return "mission_completions"
}
