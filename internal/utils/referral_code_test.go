package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		code, err := GenerateReferralCode()
		if err != nil {
			t.Fatalf("generation failed: %v", err)
		}
		if len(code) < 6 || len(code) > 12 {
			t.Fatalf("unexpected code length %d: %q", len(code), code)
		}
		// base58 excludes the lookalike characters
		if strings.ContainsAny(code, "0OIl+/=") {
			t.Fatalf("code contains ambiguous characters: %q", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code in 1000 draws: %q", code)
		}
		seen[code] = true
	}
}
