package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/identity"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
)

// Account is a marketplace participant. Role is fixed at creation.
type Account struct {
	ID        uuid.UUID
	FirstName PersonName
	LastName  PersonName
	Email     string // canonical, see identity.NormalizeEmail
	Phone     string // canonical 10-digit mobile
	Role      Role
	Status    lifecycle.State
	CreatedAt time.Time

	// PasswordHash is the bcrypt hash of the sign-in password. It never
	// leaves the service.
	PasswordHash string
}

// NewAccount canonicalizes and validates the raw fields and returns an active
// Account with a generated ID. It does not apply the admin-creation rule; that
// belongs to the authorization policy.
func NewAccount(firstName, lastName, email, phone string, role Role) (*Account, error) {
	first, err := NewPersonName(firstName)
	if err != nil {
		return nil, err
	}
	last, err := NewPersonName(lastName)
	if err != nil {
		return nil, err
	}
	canonicalEmail, err := CanonicalEmail(email)
	if err != nil {
		return nil, err
	}
	canonicalPhone, err := identity.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	return &Account{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  last,
		Email:     canonicalEmail,
		Phone:     canonicalPhone,
		Role:      role,
		Status:    lifecycle.Active,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsAdmin reports whether the account has the admin role.
func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

// IsActive reports whether the account is enabled.
func (a *Account) IsActive() bool { return a.Status.IsActive() }

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

// CheckPassword enforces the password length rule on a raw password.
func CheckPassword(raw string) error {
	if len(raw) < minPasswordLength || len(raw) > maxPasswordLength {
		return domain.ErrInvalidPassword
	}
	return nil
}

// CanonicalEmail normalizes raw and rejects an empty result.
func CanonicalEmail(raw string) (string, error) {
	e := identity.NormalizeEmail(raw)
	if e == "" {
		return "", domain.ErrInvalidEmail
	}
	return e, nil
}
