package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"bloxtalent-waitlist/internal/models"
)

func seedSignup(t *testing.T, db *gorm.DB, email string, position int) *models.WaitlistSignup {
	t.Helper()
	waitlist := newTestWaitlistService(db)
	signup, err := waitlist.Signup(SignupRequest{Email: email, FullName: "Seeded Row"})
	if err != nil {
		t.Fatalf("seed signup %s failed: %v", email, err)
	}
	if position > 0 {
		db.Model(&models.WaitlistSignup{}).Where("id = ?", signup.ID).
			Update("position_in_queue", position)
		signup.PositionInQueue = position
	}
	return signup
}

func TestCreditMovesReferrerUp(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db, 10)

	referrer := seedSignup(t, db, "ann@gmail.com", 30)
	referred := seedSignup(t, db, "bob@gmail.com", 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		return service.Credit(tx, referrer, referred, referrer.ReferralCode)
	})
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	var updated models.WaitlistSignup
	db.First(&updated, referrer.ID)
	if updated.PositionInQueue != 20 {
		t.Errorf("expected position 20, got %d", updated.PositionInQueue)
	}

	var referral models.Referral
	if err := db.First(&referral).Error; err != nil {
		t.Fatalf("no referral record: %v", err)
	}
	if referral.ReferredEmail != "bob@gmail.com" || referral.ReferralCode != referrer.ReferralCode {
		t.Errorf("audit fields wrong: %+v", referral)
	}
}

func TestCreditRejectsSecondReferralForSameSignup(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db, 10)

	referrerA := seedSignup(t, db, "ann@gmail.com", 30)
	referrerB := seedSignup(t, db, "cara@gmail.com", 30)
	referred := seedSignup(t, db, "bob@gmail.com", 0)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return service.Credit(tx, referrerA, referred, referrerA.ReferralCode)
	}); err != nil {
		t.Fatalf("first credit failed: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return service.Credit(tx, referrerB, referred, referrerB.ReferralCode)
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate-key rejection, got %v", err)
	}

	// The failed transaction must roll back B's position reward too
	var b models.WaitlistSignup
	db.First(&b, referrerB.ID)
	if b.PositionInQueue != 30 {
		t.Errorf("rolled-back credit moved referrer B to %d", b.PositionInQueue)
	}

	var count int64
	db.Model(&models.Referral{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 referral record, got %d", count)
	}
}

func TestCreditStacksAcrossReferrals(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db, 10)

	referrer := seedSignup(t, db, "ann@gmail.com", 25)
	first := seedSignup(t, db, "bob@gmail.com", 0)
	second := seedSignup(t, db, "cara@gmail.com", 0)

	for _, referred := range []*models.WaitlistSignup{first, second} {
		if err := db.Transaction(func(tx *gorm.DB) error {
			return service.Credit(tx, referrer, referred, referrer.ReferralCode)
		}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}
	}

	var updated models.WaitlistSignup
	db.First(&updated, referrer.ID)
	if updated.PositionInQueue != 5 {
		t.Errorf("expected position 5 after two credits, got %d", updated.PositionInQueue)
	}

	referrals, err := service.GetReferralsForSignup(referrer.ID)
	if err != nil {
		t.Fatalf("referrals lookup failed: %v", err)
	}
	if len(referrals) != 2 {
		t.Errorf("expected 2 referrals, got %d", len(referrals))
	}

	n, err := service.CountForReferrer(referrer.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}
