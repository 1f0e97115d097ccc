package lifecycle

import (
	"errors"
	"testing"

	"github.com/ghuser/bazaar/services/marketplace/domain"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current State
		event   Event
		want    State
		wantErr error
	}{
		{"disable active", Active, Disable, Inactive, nil},
		{"enable inactive", Inactive, Enable, Active, nil},
		{"disable inactive", Inactive, Disable, Inactive, domain.ErrAlreadyDisabled},
		{"enable active", Active, Enable, Active, domain.ErrAlreadyActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.current, tt.event)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Next(%v, %v) error = %v, want %v", tt.current, tt.event, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Next(%v, %v) = %v, want %v", tt.current, tt.event, got, tt.want)
			}
		})
	}
}

func TestNext_InvalidInputs(t *testing.T) {
	if _, err := Next(Active, Event(0)); err == nil {
		t.Fatal("expected error for unknown event")
	}
	if _, err := Next(State(0), Disable); err == nil {
		t.Fatal("expected error for zero state")
	}
}

func TestFire_RoundTrip(t *testing.T) {
	s := Active
	if err := Fire(&s, Disable, Allow); err != nil {
		t.Fatalf("first disable: %v", err)
	}
	if s != Inactive {
		t.Fatalf("expected Inactive, got %v", s)
	}

	err := Fire(&s, Disable, Allow)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second disable: expected conflict, got %v", err)
	}

	if err := Fire(&s, Enable, Allow); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if s != Active {
		t.Fatalf("expected Active, got %v", s)
	}

	err = Fire(&s, Enable, Allow)
	if !errors.Is(err, domain.ErrAlreadyActive) {
		t.Fatalf("second enable: expected ErrAlreadyActive, got %v", err)
	}
}

func TestFire_GuardRunsBeforeStateCheck(t *testing.T) {
	denied := domain.Forbidden("not allowed")
	s := Inactive

	err := Fire(&s, Disable, func() error { return denied })
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden from guard, got %v", err)
	}
	if s != Inactive {
		t.Fatal("state must not change when the guard denies")
	}
}

func TestFire_NilGuardAllows(t *testing.T) {
	s := Active
	if err := Fire(&s, Disable, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStateOf(t *testing.T) {
	if StateOf(true) != Active || StateOf(false) != Inactive {
		t.Fatal("StateOf must map true to Active and false to Inactive")
	}
	if !Active.IsActive() || Inactive.IsActive() {
		t.Fatal("IsActive mismatch")
	}
}
