package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgAuth "github.com/smartpark-rw/sims-backend/pkg/auth"
	"github.com/smartpark-rw/sims-backend/pkg/auth/session"
	"github.com/smartpark-rw/sims-backend/pkg/config"
	"github.com/smartpark-rw/sims-backend/pkg/db/models"
	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
	"github.com/smartpark-rw/sims-backend/pkg/security"
	"gorm.io/gorm"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "sims",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginReturnsTokensAndUser(t *testing.T) {
	password := "keeper-secret"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "storekeeper",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, sessions := buildTestService(t, user, cfg)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Username != user.Username {
		t.Fatalf("expected username claim %q, got %q", user.Username, claims.Username)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
	if sessions.generatedFor != claims.ID {
		t.Fatalf("session not tied to jti: %q vs %q", sessions.generatedFor, claims.ID)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "storekeeper",
		PasswordHash: mustHashPassword(t, "right"),
		IsActive:     true,
	}

	svc, _ := buildTestService(t, user, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Username: user.Username, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "keeper-secret"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "retired",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}

	svc, _ := buildTestService(t, user, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Username: user.Username, Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginUnknownUser(t *testing.T) {
	svc, _ := buildTestService(t, nil, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "keeper-secret"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "storekeeper",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, sessions := buildTestService(t, user, cfg)

	login, err := svc.Login(context.Background(), LoginRequest{Username: user.Username, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == login.AccessToken {
		t.Fatal("expected a new access token")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a new refresh token")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != sessions.lastRotatedTo {
		t.Fatalf("rotated jti mismatch: %q vs %q", claims.ID, sessions.lastRotatedTo)
	}

	// the old refresh token must no longer rotate
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for reused refresh token, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "storekeeper",
		PasswordHash: mustHashPassword(t, "pw-123456"),
		IsActive:     true,
	}
	svc, sessions := buildTestService(t, user, testJWTConfig())

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revoked != "access-1" {
		t.Fatalf("expected revoke for access-1, got %q", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestServiceMeReturnsProfile(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "storekeeper",
		PasswordHash: mustHashPassword(t, "pw-123456"),
		IsActive:     true,
	}
	svc, _ := buildTestService(t, user, testJWTConfig())

	profile, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.ID != user.ID || profile.Username != "storekeeper" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	_, err = svc.Me(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}

	_, err = svc.Me(context.Background(), uuid.Nil)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for nil id, got %v", err)
	}
}

func buildTestService(t *testing.T, user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager) {
	t.Helper()
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		SessionManager: sessions,
		JWTConfig:      jwtCfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessions
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	tokens        map[string]string
	generatedFor  string
	lastRotatedTo string
	revoked       string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{tokens: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + uuid.NewString()
	s.tokens[accessID] = token
	s.generatedFor = accessID
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	newToken := "refresh-" + uuid.NewString()
	s.tokens[newAccessID] = newToken
	s.lastRotatedTo = newAccessID
	return newAccessID, newToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = accessID
	return nil
}
