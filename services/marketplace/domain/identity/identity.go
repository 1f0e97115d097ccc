// Package identity canonicalizes account identity fields into their storage
// form. Functions here are pure and deterministic.
package identity

import (
	"strings"

	"github.com/ghuser/bazaar/services/marketplace/domain"
)

const mobileLength = 10

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Format validity is the caller's precondition and is not checked here.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePhone canonicalizes an Indian mobile number to its 10-digit form.
//
// Accepted shapes (after dropping every non-digit):
//   - 9876543210
//   - 919876543210  (also "+91 98765 43210")
//   - 09876543210
//
// Only the exact "91"+10 and "0"+10 prefixed lengths are stripped. The result
// must be 10 digits starting with 6, 7, 8 or 9, otherwise ErrInvalidPhone.
func NormalizePhone(raw string) (string, error) {
	digits := onlyDigits(raw)

	switch {
	case strings.HasPrefix(digits, "91") && len(digits) == mobileLength+2:
		digits = digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) == mobileLength+1:
		digits = digits[1:]
	}

	if !isMobile(digits) {
		return "", domain.ErrInvalidPhone
	}
	return digits, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isMobile(s string) bool {
	if len(s) != mobileLength {
		return false
	}
	switch s[0] {
	case '6', '7', '8', '9':
		return true
	default:
		return false
	}
}
