package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vendora/internal/config"
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
)

func setupAuthTest(t *testing.T) (*testEnv, *AuthService) {
	t.Helper()
	env := setupServiceTest(t)
	cfg := &config.Config{
		JWT:       config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
		VendorJWT: config.JWTConfig{SecretKey: "vendor-secret", ExpireHours: 1},
	}
	return env, NewAuthService(cfg, repository.NewAdminRepository(env.db), env.vendorRepo)
}

func (e *testEnv) createVendorWithPassword(t *testing.T, email, password, status string) *models.Vendor {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	vendor := &models.Vendor{
		Name:         email,
		Slug:         "slug-" + email,
		Email:        email,
		PasswordHash: hash,
		Status:       status,
	}
	if err := e.vendorRepo.Create(vendor); err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	return vendor
}

func TestAdminLoginAndToken(t *testing.T) {
	env, auth := setupAuthTest(t)
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &models.Admin{Username: "finance", PasswordHash: hash}
	if err := env.db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, _, _, err := auth.Login("finance", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := auth.Login("nobody", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown admin, got %v", err)
	}
	logged, token, expiresAt, err := auth.Login(" finance ", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.LastLoginAt == nil || expiresAt.IsZero() {
		t.Fatalf("login must stamp last_login_at and expiry")
	}
	claims, err := auth.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "finance" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := auth.ParseVendorJWT(token); err == nil {
		t.Fatalf("admin token must not parse with vendor secret")
	}
	state, err := auth.ResolveAdminState(context.Background(), admin.ID)
	if err != nil || state.ID != admin.ID || state.Subject != AuthSubjectAdmin {
		t.Fatalf("unexpected admin state: %+v %v", state, err)
	}
}

func TestVendorLogin(t *testing.T) {
	env, auth := setupAuthTest(t)
	vendor := env.createVendorWithPassword(t, "shop@example.com", "vendor-pass", constants.VendorStatusActive)
	env.createVendorWithPassword(t, "gone@example.com", "vendor-pass", constants.VendorStatusSuspended)

	_, token, _, err := auth.VendorLogin("SHOP@example.com ", "vendor-pass")
	if err != nil {
		t.Fatalf("vendor login: %v", err)
	}
	claims, err := auth.ParseVendorJWT(token)
	if err != nil || claims.VendorID != vendor.ID || claims.Email != "shop@example.com" {
		t.Fatalf("unexpected vendor claims: %+v %v", claims, err)
	}
	if _, err := auth.ParseJWT(token); err == nil {
		t.Fatalf("vendor token must not parse with admin secret")
	}
	if _, _, _, err := auth.VendorLogin("gone@example.com", "vendor-pass"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
	if _, _, _, err := auth.VendorLogin("shop@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangeVendorPasswordBumpsTokenVersion(t *testing.T) {
	env, auth := setupAuthTest(t)
	vendor := env.createVendorWithPassword(t, "pw@example.com", "old-password", constants.VendorStatusActive)

	if err := auth.ChangeVendorPassword(vendor.ID, "bad", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := auth.ChangeVendorPassword(vendor.ID, "old-password", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := auth.ChangeVendorPassword(vendor.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	state, err := auth.ResolveVendorState(context.Background(), vendor.ID)
	if err != nil || state.TokenVersion != 1 {
		t.Fatalf("token version must bump: %+v %v", state, err)
	}
	if _, _, _, err := auth.VendorLogin("pw@example.com", "new-password"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
