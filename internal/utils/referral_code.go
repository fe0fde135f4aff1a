package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// referralCodeBytes of entropy per code; base58 keeps the result short,
// link-safe and free of ambiguous characters (0/O, I/l).
const referralCodeBytes = 6

// GenerateReferralCode creates a random base58 referral code. Uniqueness is
// enforced by the database; callers regenerate on a collision.
func GenerateReferralCode() (string, error) {
	b := make([]byte, referralCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return base58.Encode(b), nil
}
