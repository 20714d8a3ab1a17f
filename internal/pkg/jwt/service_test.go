package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	tok, err := svc.GenerateAccessToken(userID, "dev@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Email != "dev@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if svc.IsRefreshToken(claims) {
		t.Fatal("access token must not report as refresh")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	tok, err := svc.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.IsRefreshToken(claims) {
		t.Fatal("refresh token must report as refresh")
	}
	if claims.UserID != userID {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()

	past := time.Now().Add(-48 * time.Hour)
	svc.now = func() time.Time { return past }
	tok, err := svc.GenerateAccessToken(uuid.New(), "dev@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = time.Now
	_, err = svc.ValidateToken(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	svc := newTestService()
	other := NewHMACService("other-access", "other-refresh", 15*time.Minute, 24*time.Hour)

	tok, err := other.GenerateAccessToken(uuid.New(), "dev@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ValidateToken(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ValidateToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
