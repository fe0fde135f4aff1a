package models

import (
	"time"
)

// Priority tiers for a waitlist signup
const (
	TierStandard = "standard"
	TierVIP      = "vip"
)

// User types accepted at signup
const (
	UserTypeDeveloper = "developer"
	UserTypeEmployer  = "employer"
	UserTypeBoth      = "both"
)

// WaitlistSignup represents one admitted entry on the launch waitlist.
// Email is stored lowercased and is the effective identity of the record.
// PositionInQueue only ever moves toward 1 after the initial assignment.
type WaitlistSignup struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	PublicID        string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Email           string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName        string    `gorm:"size:120;not null" json:"full_name"`
	UserType        string    `gorm:"size:20;default:developer" json:"user_type"`
	PrimaryInterest string    `gorm:"size:120" json:"primary_interest,omitempty"`
	RobloxUsername  string    `gorm:"size:50" json:"roblox_username,omitempty"`
	PositionInQueue int       `gorm:"not null" json:"position_in_queue"`
	ReferralCode    string    `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	PriorityTier    string    `gorm:"size:10;default:standard" json:"priority_tier"`
	Verified        bool      `gorm:"default:false" json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for WaitlistSignup model
func (WaitlistSignup) TableName() string {
	return "waitlist_signups"
}
