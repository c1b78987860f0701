package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/roperoapp/ropero-backend/pkg/auth"
	"github.com/roperoapp/ropero-backend/pkg/config"
	"github.com/roperoapp/ropero-backend/pkg/logger"
)

func testAuthLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "ropero-test",
		ExpirationMinutes: 60,
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testJWTConfig()
	logg := testAuthLogger()
	userID := uuid.New()

	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "ana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seenUserID uuid.UUID
	var seenEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		seenEmail = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth(cfg, logg)(next)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherCfg := cfg
		otherCfg.Secret = "another-secret-another-secret-abc"
		forged, err := pkgauth.MintAccessToken(otherCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
			UserID: userID,
			Email:  "ana@example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if seenUserID != userID {
			t.Fatalf("expected user id in context, got %s", seenUserID)
		}
		if seenEmail != "ana@example.com" {
			t.Fatalf("expected email in context, got %q", seenEmail)
		}
	})
}
