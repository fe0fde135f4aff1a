package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"bloxtalent-waitlist/internal/models"
)

// ReferralService grants the one-time position reward a referrer earns when
// someone they referred is admitted to the waitlist.
type ReferralService struct {
	db     *gorm.DB
	reward int
}

// NewReferralService creates a new ReferralService
func NewReferralService(db *gorm.DB, reward int) *ReferralService {
	return &ReferralService{
		db:     db,
		reward: reward,
	}
}

// Credit moves the referrer up the queue and appends the audit record, inside
// the caller's transaction. It must only be invoked from the create branch of
// signup admission: the unique index on referred_signup_id rejects a second
// credit for the same referred signup, so a replayed admission cannot pay the
// referrer twice.
func (s *ReferralService) Credit(tx *gorm.DB, referrer *models.WaitlistSignup, referred *models.WaitlistSignup, code string) error {
	result := tx.Model(&models.WaitlistSignup{}).
		Where("id = ?", referrer.ID).
		Update("position_in_queue", positionAfterReward(s.reward))
	if result.Error != nil {
		return fmt.Errorf("failed to apply referral reward: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSignupNotFound
	}

	referral := models.Referral{
		ReferrerID:       referrer.ID,
		ReferredSignupID: referred.ID,
		ReferredEmail:    referred.Email,
		ReferralCode:     code,
		Status:           models.ReferralStatusSignedUp,
	}

	if err := tx.Create(&referral).Error; err != nil {
		return fmt.Errorf("failed to record referral: %w", err)
	}

	log.Printf("Referral credited: signup %d referred by %d via code %s", referred.ID, referrer.ID, code)
	return nil
}

// GetReferralsForSignup returns the referrals a signup has earned as referrer
func (s *ReferralService) GetReferralsForSignup(signupID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", signupID).Order("created_at DESC").Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}

// CountForReferrer returns how many signups a referrer has brought in
func (s *ReferralService) CountForReferrer(signupID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Referral{}).Where("referrer_id = ?", signupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
