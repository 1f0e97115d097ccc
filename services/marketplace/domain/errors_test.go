package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindErrors_NonNil(t *testing.T) {
	for _, err := range []error{ErrValidation, ErrForbidden, ErrNotFound, ErrConflict} {
		if err == nil {
			t.Fatal("kind errors must not be nil")
		}
	}
}

func TestSpecificErrors_UnwrapToKind(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrInvalidPhone, ErrValidation},
		{ErrInvalidName, ErrValidation},
		{ErrInvalidPrice, ErrValidation},
		{ErrInvalidRole, ErrValidation},
		{ErrInvalidEmail, ErrValidation},
		{ErrInvalidPassword, ErrValidation},
		{ErrEmptyUpdate, ErrValidation},
		{ErrAccountNotFound, ErrNotFound},
		{ErrItemNotFound, ErrNotFound},
		{ErrCategoryNotFound, ErrNotFound},
		{ErrDuplicateEmail, ErrConflict},
		{ErrDuplicateName, ErrConflict},
		{ErrAlreadyDisabled, ErrConflict},
		{ErrAlreadyActive, ErrConflict},
		{ErrAdminSelfCreate, ErrForbidden},
		{ErrAdminImmune, ErrForbidden},
		{ErrAccountDisabled, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Fatalf("%q does not unwrap to %q", tt.err, tt.kind)
			}
			if got := Kind(tt.err); got != tt.kind {
				t.Fatalf("Kind(%q) = %v, want %v", tt.err, got, tt.kind)
			}
		})
	}
}

func TestSpecificErrors_Messages(t *testing.T) {
	if ErrAlreadyDisabled.Error() != "already disabled" {
		t.Fatalf("unexpected message: %q", ErrAlreadyDisabled.Error())
	}
	if ErrAlreadyActive.Error() != "already active" {
		t.Fatalf("unexpected message: %q", ErrAlreadyActive.Error())
	}
}

func TestKind_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("update account: %w", ErrDuplicateEmail)
	if !errors.Is(wrapped, ErrDuplicateEmail) {
		t.Fatal("errors.Is must match wrapped ErrDuplicateEmail")
	}
	if Kind(wrapped) != ErrConflict {
		t.Fatalf("expected ErrConflict kind, got %v", Kind(wrapped))
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidName, errors.New("too short"))
	if Kind(wrapped2) != ErrValidation {
		t.Fatal("double-wrapped ErrInvalidName must classify as ErrValidation")
	}
}

func TestKind_NonDomainError(t *testing.T) {
	if Kind(errors.New("db down")) != nil {
		t.Fatal("infrastructure errors must not classify as a domain kind")
	}
	if Kind(nil) != nil {
		t.Fatal("nil must not classify")
	}
}

func TestInvalidCredentials_HasNoKind(t *testing.T) {
	if Kind(ErrInvalidCredentials) != nil {
		t.Fatal("ErrInvalidCredentials must not classify as a domain kind")
	}
}

func TestForbidden_CarriesReason(t *testing.T) {
	err := Forbidden("only seller can add items")
	if !errors.Is(err, ErrForbidden) {
		t.Fatal("Forbidden must unwrap to ErrForbidden")
	}
	if err.Error() != "only seller can add items" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
