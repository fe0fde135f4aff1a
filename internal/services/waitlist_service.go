package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloxtalent-waitlist/internal/models"
	"bloxtalent-waitlist/internal/utils"
)

// SignupRequest carries the caller-supplied fields for waitlist admission
type SignupRequest struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	UserType        string `json:"user_type"`
	PrimaryInterest string `json:"primary_interest"`
	RobloxUsername  string `json:"roblox_username"`
	ReferralCode    string `json:"referral_code"`
}

// WaitlistService owns waitlist admission and status lookups
type WaitlistService struct {
	db         *gorm.DB
	referrals  *ReferralService
	vipDomains []string
}

// NewWaitlistService creates a new WaitlistService
func NewWaitlistService(db *gorm.DB, referrals *ReferralService, vipDomains []string) *WaitlistService {
	return &WaitlistService{
		db:         db,
		referrals:  referrals,
		vipDomains: vipDomains,
	}
}

// Signup finds or creates a waitlist entry for the request's email.
// Re-submitting an email that is already on the list returns the existing
// record untouched: no new position, no duplicate row, no referral credit.
func (s *WaitlistService) Signup(req SignupRequest) (*models.WaitlistSignup, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	if email == "" {
		return nil, ErrMissingEmail
	}
	if !strings.Contains(email[1:], "@") {
		return nil, ErrInvalidEmail
	}
	if fullName == "" {
		return nil, ErrMissingFullName
	}

	userType := req.UserType
	if userType == "" {
		userType = models.UserTypeDeveloper
	}
	switch userType {
	case models.UserTypeDeveloper, models.UserTypeEmployer, models.UserTypeBoth:
	default:
		return nil, ErrInvalidUserType
	}

	var existing models.WaitlistSignup
	result := s.db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		log.Printf("Signup replay for %s (id %s), returning existing record", email, existing.PublicID)
		return &existing, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	signup, err := s.admit(email, fullName, userType, req)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent request admitted this email first. The winner's
		// record is the record.
		var winner models.WaitlistSignup
		if ferr := s.db.Where("email = ?", email).First(&winner).Error; ferr == nil {
			return &winner, nil
		}
		return nil, fmt.Errorf("failed to admit signup: %w", err)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("New waitlist signup: %s tier=%s position=%d", email, signup.PriorityTier, signup.PositionInQueue)
	return signup, nil
}

// admit creates the record, assigns its position and credits the referrer, all
// in one transaction. On a referral-code collision it regenerates the code and
// retries once; an email unique violation is returned as gorm.ErrDuplicatedKey
// for the caller to resolve.
func (s *WaitlistService) admit(email, fullName, userType string, req SignupRequest) (*models.WaitlistSignup, error) {
	tier := models.TierStandard
	verified := false
	if s.isVIPDomain(email) {
		tier = models.TierVIP
		verified = true
	}

	var signup *models.WaitlistSignup

	attempt := func() error {
		code, err := utils.GenerateReferralCode()
		if err != nil {
			return err
		}

		fresh := &models.WaitlistSignup{
			PublicID:        uuid.NewString(),
			Email:           email,
			FullName:        fullName,
			UserType:        userType,
			PrimaryInterest: strings.TrimSpace(req.PrimaryInterest),
			RobloxUsername:  strings.TrimSpace(req.RobloxUsername),
			ReferralCode:    code,
			PriorityTier:    tier,
			Verified:        verified,
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			// VIPs queue against the VIP count only; their numbers may
			// collide with standard positions. That looseness is accepted:
			// (priority_tier, position_in_queue) is the real sort key.
			count := tx.Model(&models.WaitlistSignup{})
			if tier == models.TierVIP {
				count = count.Where("priority_tier = ?", models.TierVIP)
			}
			var existing int64
			if err := count.Count(&existing).Error; err != nil {
				return err
			}
			fresh.PositionInQueue = int(existing) + 1

			if err := tx.Create(fresh).Error; err != nil {
				return err
			}

			// Referral attribution stays inside the create transaction so a
			// retried signup can never pay the referrer twice.
			if req.ReferralCode != "" {
				var referrer models.WaitlistSignup
				ferr := tx.Where("referral_code = ?", req.ReferralCode).First(&referrer).Error
				if ferr == nil {
					if err := s.referrals.Credit(tx, &referrer, fresh, req.ReferralCode); err != nil {
						return err
					}
				} else if !errors.Is(ferr, gorm.ErrRecordNotFound) {
					return ferr
				}
				// Unresolvable codes are ignored; the signup still goes through.
			}

			return nil
		})
		if err != nil {
			return err
		}

		signup = fresh
		return nil
	}

	err := attempt()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Either the referral code collided (regenerate and retry once) or a
		// concurrent signup won the email. Re-checking the email tells the
		// two apart.
		var winner models.WaitlistSignup
		if ferr := s.db.Where("email = ?", email).First(&winner).Error; ferr == nil {
			return nil, gorm.ErrDuplicatedKey
		}
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	return signup, nil
}

// isVIPDomain checks the email's domain against the trusted-domain allowlist
func (s *WaitlistService) isVIPDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, d := range s.vipDomains {
		if domain == d {
			return true
		}
	}
	return false
}

// GetByPublicID retrieves a signup by its opaque public id
func (s *WaitlistService) GetByPublicID(publicID string) (*models.WaitlistSignup, error) {
	var signup models.WaitlistSignup
	if err := s.db.Where("public_id = ?", publicID).First(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}
	return &signup, nil
}

// GetByEmail retrieves a signup by normalized email
func (s *WaitlistService) GetByEmail(email string) (*models.WaitlistSignup, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingEmail
	}

	var signup models.WaitlistSignup
	if err := s.db.Where("email = ?", email).First(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}
	return &signup, nil
}

// CompletedMissions returns the mission types a signup has already claimed
func (s *WaitlistService) CompletedMissions(signupID uint) ([]string, error) {
	var types []string
	err := s.db.Model(&models.MissionCompletion{}).
		Where("signup_id = ?", signupID).
		Order("created_at").
		Pluck("mission_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// List returns a page of the roster for the admin view, VIP lane first.
// position_in_queue alone is not a total order across tiers, so the sort key
// is (priority_tier, position_in_queue).
func (s *WaitlistService) List(tier string, page, pageSize int) ([]models.WaitlistSignup, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	countQuery := s.db.Model(&models.WaitlistSignup{})
	listQuery := s.db.Model(&models.WaitlistSignup{})
	if tier != "" {
		countQuery = countQuery.Where("priority_tier = ?", tier)
		listQuery = listQuery.Where("priority_tier = ?", tier)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var signups []models.WaitlistSignup
	err := listQuery.
		Order("priority_tier DESC").
		Order("position_in_queue ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&signups).Error
	if err != nil {
		return nil, 0, err
	}

	return signups, total, nil
}
