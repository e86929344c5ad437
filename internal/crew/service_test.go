package crew

import (
	"context"
	"io"
	"log/slog"
	"testing"

	apperrors "lunarbase-server/internal/shared/errors"
)

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	return NewService(store, "Commander@LunarBase.local", slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, " Ada ", "Ada@Example.com", "hash")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.FirstName != "Ada" || u.Email != "ada@example.com" || u.Role != RoleUser {
		t.Errorf("unexpected user %+v", u)
	}

	_, err = svc.Register(ctx, "Ada", "ada@example.com", "hash")
	if apperrors.GetType(err) != apperrors.ErrorTypeConflict {
		t.Errorf("expected conflict on duplicate email, got %v", err)
	}
}

func TestRegisterAdminEmail(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), "Cmdr", "commander@lunarbase.local", "hash")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != RoleAdmin {
		t.Errorf("expected admin role, got %s", u.Role)
	}
}

func TestFindOrCreateByOAuth(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.FindOrCreateByOAuth(ctx, "github", "pilot@example.com", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FirstName != "pilot" {
		t.Errorf("expected name derived from email, got %q", created.FirstName)
	}

	again, err := svc.FindOrCreateByOAuth(ctx, "github", "pilot@example.com", "Pilot", nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("expected same account, got %d and %d", created.ID, again.ID)
	}

	// An existing user signing in with the admin email is promoted.
	existing, _ := store.Create(ctx, NewUser{FirstName: "C", Email: "commander@lunarbase.local", Role: RoleUser})
	promoted, err := svc.FindOrCreateByOAuth(ctx, "github", "commander@lunarbase.local", "C", nil)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.ID != existing.ID || promoted.Role != RoleAdmin {
		t.Errorf("expected promotion of user %d, got %+v", existing.ID, promoted)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetByID(context.Background(), 404)
	if apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
