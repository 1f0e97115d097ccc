package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ghuser/bazaar/services/marketplace/domain"
)

const (
	minPersonNameLength   = 2
	maxPersonNameLength   = 50
	minItemNameLength     = 3
	maxItemNameLength     = 100
	minCategoryNameLength = 3
	maxCategoryNameLength = 100
)

// PersonName is a trimmed first or last name of 2–50 characters.
type PersonName string

// NewPersonName trims s and validates its length.
func NewPersonName(s string) (PersonName, error) {
	n, err := trimmedName(s, minPersonNameLength, maxPersonNameLength)
	return PersonName(n), err
}

func (n PersonName) String() string { return string(n) }

// ItemName is a trimmed item name of 3–100 characters.
type ItemName string

// NewItemName trims s and validates its length.
func NewItemName(s string) (ItemName, error) {
	n, err := trimmedName(s, minItemNameLength, maxItemNameLength)
	return ItemName(n), err
}

func (n ItemName) String() string { return string(n) }

// CategoryName is a trimmed category name of 3–100 characters.
type CategoryName string

// NewCategoryName trims s and validates its length.
func NewCategoryName(s string) (CategoryName, error) {
	n, err := trimmedName(s, minCategoryNameLength, maxCategoryNameLength)
	return CategoryName(n), err
}

func (n CategoryName) String() string { return string(n) }

// Key returns the case-folded form used for uniqueness checks.
func (n CategoryName) Key() string { return strings.ToLower(string(n)) }

func trimmedName(s string, minLen, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	l := utf8.RuneCountInString(s)
	if l < minLen {
		return "", fmt.Errorf("%w: must be at least %d characters", domain.ErrInvalidName, minLen)
	}
	if l > maxLen {
		return "", fmt.Errorf("%w: must not exceed %d characters", domain.ErrInvalidName, maxLen)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: must not contain control characters", domain.ErrInvalidName)
		}
	}
	return s, nil
}

// Price is an amount in the smallest currency unit (paise). Always positive.
type Price int64

// NewPrice validates that v is positive.
func NewPrice(v int64) (Price, error) {
	if v <= 0 {
		return 0, domain.ErrInvalidPrice
	}
	return Price(v), nil
}

func (p Price) Int64() int64 { return int64(p) }
