package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service errors surfaced to handlers
var (
	ErrMissingEmail    = errors.New("email is required")
	ErrInvalidEmail    = errors.New("email is not a valid address")
	ErrMissingFullName = errors.New("full name is required")
	ErrInvalidUserType = errors.New("user type must be developer, employer or both")
	ErrSignupNotFound  = errors.New("signup not found")
	ErrUnknownMission  = errors.New("unknown mission type")
)

// Mission types eligible for a one-time position reward
const (
	MissionDiscordJoin     = "discord_join"
	MissionTwitterFollow   = "twitter_follow"
	MissionYoutubeSub      = "youtube_subscribe"
	MissionProfileComplete = "profile_complete"
)

var missionTypes = map[string]bool{
	MissionDiscordJoin:     true,
	MissionTwitterFollow:   true,
	MissionYoutubeSub:      true,
	MissionProfileComplete: true,
}

// ValidMissionType reports whether missionType is in the fixed enumeration
func ValidMissionType(missionType string) bool {
	return missionTypes[missionType]
}

// positionAfterReward builds the single-statement decrement of
// position_in_queue floored at 1. Keeping the subtract-and-floor inside one
// UPDATE makes concurrent credits to the same signup safe: there is no
// read-modify-write window to lose an update in. The CASE form works on both
// Postgres and the sqlite driver used in tests.
func positionAfterReward(amount int) clause.Expr {
	return gorm.Expr(
		"CASE WHEN position_in_queue - ? >= 1 THEN position_in_queue - ? ELSE 1 END",
		amount, amount,
	)
}
