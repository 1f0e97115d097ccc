package services

import (
	"context"
	"errors"

	"github.com/ghuser/bazaar/pkg/auth"
	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/identity"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
	"github.com/ghuser/bazaar/services/marketplace/domain/repositories"
)

// SessionService decides whether a caller may act as an account.
type SessionService struct {
	accounts repositories.AccountRepository
}

// SignIn checks email and password and returns the account a session will act
// as. An unknown email and a wrong password both return
// ErrInvalidCredentials. Disabled accounts are refused with
// ErrAccountDisabled, but only after the password matched.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.accounts.GetByEmail(ctx, identity.NormalizeEmail(email))
	var hash string
	switch {
	case err == nil:
		hash = a.PasswordHash
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, err
	}

	if err := auth.ComparePassword(hash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.IsActive() {
		return nil, domain.ErrAccountDisabled
	}
	return a, nil
}
