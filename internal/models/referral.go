package models

import (
	"time"
)

// ReferralStatusSignedUp is the only status a referral is ever written with;
// the table is an append-only audit trail.
const ReferralStatusSignedUp = "signed_up"

// Referral links a referrer to a signup that used their referral code.
// The unique index on ReferredSignupID guarantees a referred signup is
// credited to at most one referrer, exactly once.
type Referral struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ReferrerID       uint            `gorm:"not null;index" json:"referrer_id"`
	Referrer         *WaitlistSignup `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredSignupID uint            `gorm:"not null;uniqueIndex" json:"referred_signup_id"`
	ReferredSignup   *WaitlistSignup `gorm:"foreignKey:ReferredSignupID" json:"referred_signup,omitempty"`
	ReferredEmail    string          `gorm:"size:255;not null" json:"referred_email"`
	ReferralCode     string          `gorm:"size:20;not null;index" json:"referral_code"`
	Status           string          `gorm:"size:20;default:signed_up" json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
