package store

import (
	"testing"

	"github.com/google/uuid"

	"procomm/internal/models"
)

func TestUserStoreCreateAndAuth(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-user-" + uuid.NewString()[:8] + "@procomm.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "s3cret-password", "Test Editor", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Role != models.RoleEditor {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleEditor)
	}
	if user.TOTPEnabled {
		t.Error("expected 2FA disabled on a fresh account")
	}
	if !user.Needs2FASetup() {
		t.Error("expected fresh account to need 2FA setup")
	}

	if !s.CheckPassword(user, "s3cret-password") {
		t.Error("expected correct password to verify")
	}
	if s.CheckPassword(user, "wrong-password") {
		t.Error("expected wrong password to fail")
	}

	found, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Fatalf("expected user %s, got %+v", user.ID, found)
	}

	missing, err := s.FindByEmail("nobody@procomm.local")
	if err != nil {
		t.Fatalf("FindByEmail (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-totp-" + uuid.NewString()[:8] + "@procomm.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "password123", "TOTP User", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	found, _ := s.FindByID(user.ID)
	if found.TOTPSecret == nil || *found.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("totp_secret: got %v", found.TOTPSecret)
	}
	if !found.TOTPEnabled {
		t.Error("expected totp_enabled after EnableTOTP")
	}
	if found.Needs2FASetup() {
		t.Error("expected enrolled account to not need setup")
	}
}
