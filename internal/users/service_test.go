package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate user schema: %v", err)
	}
	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return time.Unix(1750000000, 0) },
		IDProvider: NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestCreateLowercasesEmail(t *testing.T) {
	service := newTestService(t)

	user, err := service.Create(context.Background(), "Studio@Example.COM", "secret-pass", RoleMat)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Email != "studio@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "secret-pass" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
}

func TestCreateRejectsDuplicateEmailCaseInsensitively(t *testing.T) {
	service := newTestService(t)

	if _, err := service.Create(context.Background(), "owner@example.com", "secret-pass", RoleAdmin); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := service.Create(context.Background(), "OWNER@example.com", "other-pass", RoleMat)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateRoleHandling(t *testing.T) {
	service := newTestService(t)

	cases := []struct {
		name     string
		role     string
		wantRole string
		wantErr  error
	}{
		{name: "admin", role: RoleAdmin, wantRole: RoleAdmin},
		{name: "combined", role: RoleCombined, wantRole: RoleCombined},
		{name: "legacy user still assignable", role: RoleLegacyUser, wantRole: RoleLegacyUser},
		{name: "blank falls back to legacy default", role: "", wantRole: RoleLegacyUser},
		{name: "unknown rejected", role: "superuser", wantErr: ErrInvalidRole},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email := fmt.Sprintf("user%d@example.com", i)
			user, err := service.Create(context.Background(), email, "secret-pass", tc.role)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if user.Role != tc.wantRole {
				t.Fatalf("expected role %q, got %q", tc.wantRole, user.Role)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	service := newTestService(t)

	if _, err := service.Create(context.Background(), "Trainer@Example.com", "correct-horse", RoleMachine); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	user, err := service.Authenticate(context.Background(), "trainer@EXAMPLE.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.Role != RoleMachine {
		t.Fatalf("unexpected role %q", user.Role)
	}

	if _, err := service.Authenticate(context.Background(), "trainer@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestDeleteGuardsAgainstSelfDeletion(t *testing.T) {
	service := newTestService(t)

	admin, err := service.Create(context.Background(), "admin@example.com", "secret-pass", RoleAdmin)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other, err := service.Create(context.Background(), "other@example.com", "secret-pass", RoleMat)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Delete(context.Background(), admin.ID, admin.ID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if err := service.Delete(context.Background(), admin.ID, other.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := service.Delete(context.Background(), admin.ID, other.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	service := newTestService(t)

	first, created, err := service.EnsureAdmin(context.Background(), "Boot@Example.com", "secret-pass")
	if err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if !created || first.Role != RoleAdmin || first.Email != "boot@example.com" {
		t.Fatalf("unexpected bootstrap result: created=%v user=%+v", created, first)
	}

	second, created, err := service.EnsureAdmin(context.Background(), "boot@example.com", "different-pass")
	if err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("expected existing account to be reused, created=%v", created)
	}
}

func TestListReturnsAllAccounts(t *testing.T) {
	service := newTestService(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := service.Create(context.Background(), email, "secret-pass", RoleMat); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	accounts, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected two accounts, got %d", len(accounts))
	}
}
