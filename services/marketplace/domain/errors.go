package domain

import "errors"

// Error kinds. Every error produced by the marketplace domain unwraps to
// exactly one of these; use errors.Is(err, domain.ErrConflict) and friends to
// classify an outcome without caring which rule produced it.
var (
	// ErrValidation indicates malformed or insufficient input.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the actor lacks the role or ownership the action
	// requires, or the target's state makes the action structurally disallowed.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a referenced actor, target, or category does not
	// exist, or a category exists but is inactive where activeness is required.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate unique field or a lifecycle transition
	// that is a no-op for the current state.
	ErrConflict = errors.New("conflict")
)

// Specific errors, each bound to a kind.
var (
	ErrInvalidPhone     = newError(ErrValidation, "invalid indian mobile number")
	ErrInvalidName      = newError(ErrValidation, "invalid name")
	ErrInvalidPrice     = newError(ErrValidation, "price must be a positive integer")
	ErrInvalidRole      = newError(ErrValidation, "invalid role")
	ErrInvalidEmail     = newError(ErrValidation, "invalid email")
	ErrInvalidPassword  = newError(ErrValidation, "password must be 8 to 72 bytes")
	ErrEmptyUpdate      = newError(ErrValidation, "no data provided")
	ErrAccountNotFound  = newError(ErrNotFound, "account not found")
	ErrItemNotFound     = newError(ErrNotFound, "item not found")
	ErrCategoryNotFound = newError(ErrNotFound, "category not found or inactive")
	ErrDuplicateEmail   = newError(ErrConflict, "email already exists")
	ErrDuplicateName    = newError(ErrConflict, "category already exists")
	ErrAlreadyDisabled  = newError(ErrConflict, "already disabled")
	ErrAlreadyActive    = newError(ErrConflict, "already active")
	ErrAdminSelfCreate  = newError(ErrForbidden, "admin cannot be self-created")
	ErrAdminImmune      = newError(ErrForbidden, "admin cannot be disabled")
	ErrAccountDisabled  = newError(ErrForbidden, "account is disabled")
)

// ErrInvalidCredentials is returned by sign-in for an unknown email or a wrong
// password. It has no kind: it is not a rule violation on an existing entity.
var ErrInvalidCredentials = errors.New("invalid email or password")

// kindError is a message bound to one error kind.
type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Forbidden returns an ErrForbidden carrying reason as its message.
func Forbidden(reason string) error {
	return newError(ErrForbidden, reason)
}

// Kind returns the kind err unwraps to, or nil if it is not a domain error.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
