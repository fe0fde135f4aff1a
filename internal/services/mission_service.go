package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"bloxtalent-waitlist/internal/models"
)

// MissionService applies one-time position rewards for completed engagement
// missions. The durable completion record is the idempotence guard; client
// state is never trusted.
type MissionService struct {
	db     *gorm.DB
	reward int
}

// NewMissionService creates a new MissionService
func NewMissionService(db *gorm.DB, reward int) *MissionService {
	return &MissionService{
		db:     db,
		reward: reward,
	}
}

// CreditMission rewards a signup for completing a mission, at most once per
// (signup, mission) pair. Replays are a no-op success returning the current
// record. The completion insert and the position update share one
// transaction, so either both land or neither does.
func (m *MissionService) CreditMission(publicID, missionType string) (*models.WaitlistSignup, error) {
	if !ValidMissionType(missionType) {
		return nil, ErrUnknownMission
	}

	var signup models.WaitlistSignup
	if err := m.db.Where("public_id = ?", publicID).First(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		completion := models.MissionCompletion{
			SignupID:      signup.ID,
			MissionType:   missionType,
			RewardApplied: m.reward,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}

		return tx.Model(&models.WaitlistSignup{}).
			Where("id = ?", signup.ID).
			Update("position_in_queue", positionAfterReward(m.reward)).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already claimed; repeated clicks are not an error.
		log.Printf("Mission %s already credited for signup %s", missionType, publicID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to credit mission: %w", err)
	} else {
		log.Printf("Mission %s credited for signup %s (-%d)", missionType, publicID, m.reward)
	}

	var updated models.WaitlistSignup
	if err := m.db.Where("id = ?", signup.ID).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &updated, nil
}

// CompletionsForSignup returns a signup's mission completions, oldest first
func (m *MissionService) CompletionsForSignup(signupID uint) ([]models.MissionCompletion, error) {
	var completions []models.MissionCompletion
	if err := m.db.Where("signup_id = ?", signupID).Order("created_at").Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}
