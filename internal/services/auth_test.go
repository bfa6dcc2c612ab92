package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/types"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return NewAuthService(
		gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		testJWTSecret, time.Hour, 24*time.Hour,
	)
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Rivka@Example.com", "strong-password", "Rivka")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "rivka@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "strong-password" {
		t.Fatal("password stored in plaintext")
	}

	if _, err := auth.Register(ctx, "rivka@example.com", "strong-password", "Other"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("duplicate email: expected invalid-argument, got %v", err)
	}

	access, refresh, err := auth.Login(ctx, "rivka@example.com", "strong-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty token pair")
	}

	resolved, err := auth.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	rd := requestdata.GetRequestData(resolved)
	if rd == nil || rd.UserID != user.ID || rd.DisplayName != "Rivka" {
		t.Fatalf("resolved identity wrong: %+v", rd)
	}
	if rd.Role != types.RoleNone {
		t.Fatalf("fresh account role = %q, want none", rd.Role)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "rivka@example.com", "wrong")
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "whatever")
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
}

func TestRefreshRotatesTokens(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "a@example.com", "strong-password", "A"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := auth.Login(ctx, "a@example.com", "strong-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	newAccess, newRefresh, err := auth.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatal("empty rotated pair")
	}

	// The old refresh token was revoked by the rotation.
	if _, _, err := auth.Refresh(ctx, refresh); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("stale refresh token: expected unauthenticated, got %v", err)
	}
}

func TestSetContextFromTokenRejections(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	signedWith := func(claims jwt.MapClaims, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	baseClaims := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub":  uuid.NewString(),
			"name": "x",
			"role": "",
			"iat":  time.Now().Unix(),
			"exp":  time.Now().Add(time.Hour).Unix(),
		}
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := auth.SetContextFromToken(ctx, "not-a-token"); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
	t.Run("wrong secret", func(t *testing.T) {
		if _, err := auth.SetContextFromToken(ctx, signedWith(baseClaims(), "other-secret")); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		if _, err := auth.SetContextFromToken(ctx, signedWith(claims, testJWTSecret)); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
	t.Run("unknown role claim is rejected not demoted", func(t *testing.T) {
		claims := baseClaims()
		claims["role"] = "GrandVizier"
		if _, err := auth.SetContextFromToken(ctx, signedWith(claims, testJWTSecret)); !errors.Is(err, apperr.ErrPermissionDenied) {
			t.Fatalf("expected permission-denied, got %v", err)
		}
	})
	t.Run("malformed subject", func(t *testing.T) {
		claims := baseClaims()
		claims["sub"] = "not-a-uuid"
		if _, err := auth.SetContextFromToken(ctx, signedWith(claims, testJWTSecret)); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
}
