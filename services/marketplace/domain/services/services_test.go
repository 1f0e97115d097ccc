package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/optional"
	"github.com/ghuser/bazaar/services/marketplace/domain"
	"github.com/ghuser/bazaar/services/marketplace/domain/lifecycle"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

type fakeEmails map[string]uuid.UUID

func (f fakeEmails) EmailTaken(_ context.Context, email string, excluding uuid.UUID) (bool, error) {
	id, ok := f[email]
	return ok && id != excluding, nil
}

type fakeCategories struct {
	byID map[uuid.UUID]*models.Category
	err  error
}

func (f *fakeCategories) NameTaken(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.byID {
		if c.Name.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func mustCategory(t *testing.T, name string, active bool) *models.Category {
	t.Helper()
	c, err := models.NewCategory(uuid.New(), name)
	if err != nil {
		t.Fatalf("NewCategory: %v", err)
	}
	c.Status = lifecycle.StateOf(active)
	return c
}

func TestValidator_CheckUniqueEmail(t *testing.T) {
	owner := uuid.New()
	v := NewValidator(fakeEmails{"riya@example.com": owner}, &fakeCategories{})

	tests := []struct {
		name      string
		email     string
		excluding uuid.UUID
		wantErr   error
	}{
		{"free email", "amit@example.com", uuid.Nil, nil},
		{"taken by someone else", "riya@example.com", uuid.Nil, domain.ErrDuplicateEmail},
		{"taken by self", "riya@example.com", owner, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.CheckUniqueEmail(context.Background(), tc.email, tc.excluding)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidator_CheckUniqueCategoryName(t *testing.T) {
	existing := mustCategory(t, "Electronics", true)
	v := NewValidator(fakeEmails{}, &fakeCategories{byID: map[uuid.UUID]*models.Category{existing.ID: existing}})

	dup, _ := models.NewCategoryName("ELECTRONICS")
	if err := v.CheckUniqueCategoryName(context.Background(), dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for case-folded duplicate, got %v", err)
	}

	fresh, _ := models.NewCategoryName("Books")
	if err := v.CheckUniqueCategoryName(context.Background(), fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_CheckActiveCategory(t *testing.T) {
	active := mustCategory(t, "Books", true)
	inactive := mustCategory(t, "Toys", false)
	cats := &fakeCategories{byID: map[uuid.UUID]*models.Category{active.ID: active, inactive.ID: inactive}}
	v := NewValidator(fakeEmails{}, cats)

	tests := []struct {
		name    string
		id      uuid.UUID
		wantErr error
	}{
		{"active", active.ID, nil},
		{"inactive", inactive.ID, domain.ErrCategoryNotFound},
		{"missing", uuid.New(), domain.ErrCategoryNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.CheckActiveCategory(context.Background(), tc.id)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}

	t.Run("storage failure is not reported as not found", func(t *testing.T) {
		boom := errors.New("connection reset")
		v := NewValidator(fakeEmails{}, &fakeCategories{err: boom})
		err := v.CheckActiveCategory(context.Background(), active.ID)
		if !errors.Is(err, boom) || errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected wrapped storage error, got %v", err)
		}
	})
}

func newAccount(t *testing.T) *models.Account {
	t.Helper()
	a, err := models.NewAccount("Riya", "Verma", "riya@example.com", "9876543210", models.RoleCustomer)
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	return a
}

func TestMergeAccount(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		_, err := MergeAccount(newAccount(t), models.AccountPatch{})
		if !errors.Is(err, domain.ErrEmptyUpdate) {
			t.Fatalf("expected ErrEmptyUpdate, got %v", err)
		}
	})

	t.Run("applies only present fields", func(t *testing.T) {
		a := newAccount(t)
		merged, err := MergeAccount(a, models.AccountPatch{
			LastName: optional.Of("  Sharma "),
			Phone:    optional.Of("09123456789"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if merged.FirstName != "Riya" || merged.LastName != "Sharma" {
			t.Errorf("names = %q %q", merged.FirstName, merged.LastName)
		}
		if merged.Phone != "9123456789" {
			t.Errorf("Phone = %q", merged.Phone)
		}
		if merged.Email != a.Email {
			t.Errorf("Email changed to %q", merged.Email)
		}
	})

	t.Run("does not mutate snapshot", func(t *testing.T) {
		a := newAccount(t)
		_, err := MergeAccount(a, models.AccountPatch{Email: optional.Of("NEW@Example.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Email != "riya@example.com" {
			t.Fatalf("snapshot mutated: %q", a.Email)
		}
	})

	t.Run("present but empty email is invalid", func(t *testing.T) {
		_, err := MergeAccount(newAccount(t), models.AccountPatch{Email: optional.Of("   ")})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, err := MergeAccount(newAccount(t), models.AccountPatch{Phone: optional.Of("5123456789")})
		if !errors.Is(err, domain.ErrInvalidPhone) {
			t.Fatalf("expected ErrInvalidPhone, got %v", err)
		}
	})
}

func TestMergeItem(t *testing.T) {
	item, err := models.NewItem(uuid.New(), uuid.New(), "Desk lamp", 49900)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	tests := []struct {
		name    string
		patch   models.ItemPatch
		wantErr error
	}{
		{"empty", models.ItemPatch{}, domain.ErrEmptyUpdate},
		{"zero price", models.ItemPatch{Price: optional.Of(int64(0))}, domain.ErrInvalidPrice},
		{"short name", models.ItemPatch{Name: optional.Of(" ab ")}, domain.ErrInvalidName},
		{"rename", models.ItemPatch{Name: optional.Of("Floor lamp")}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MergeItem(item, tc.patch)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMerger_Account(t *testing.T) {
	self := newAccount(t)
	other := uuid.New()
	m := NewMerger(NewValidator(fakeEmails{
		self.Email:         self.ID,
		"amit@example.com": other,
	}, &fakeCategories{}))

	t.Run("own email in different case is allowed", func(t *testing.T) {
		merged, err := m.Account(context.Background(), self, models.AccountPatch{Email: optional.Of(strings.ToUpper(self.Email))})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if merged.Email != self.Email {
			t.Fatalf("Email = %q", merged.Email)
		}
	})

	t.Run("another account's email conflicts", func(t *testing.T) {
		_, err := m.Account(context.Background(), self, models.AccountPatch{Email: optional.Of("Amit@Example.com")})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestMerger_Item(t *testing.T) {
	active := mustCategory(t, "Books", true)
	inactive := mustCategory(t, "Toys", false)
	m := NewMerger(NewValidator(fakeEmails{}, &fakeCategories{byID: map[uuid.UUID]*models.Category{
		active.ID:   active,
		inactive.ID: inactive,
	}}))

	item, err := models.NewItem(uuid.New(), active.ID, "Desk lamp", 49900)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	if _, err := m.Item(context.Background(), item, models.ItemPatch{CategoryID: optional.Of(inactive.ID)}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	// Category untouched: its current state is not re-checked.
	active.Status = lifecycle.Inactive
	merged, err := m.Item(context.Background(), item, models.ItemPatch{Price: optional.Of(int64(59900))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Price != 59900 {
		t.Fatalf("Price = %d", merged.Price)
	}
}
