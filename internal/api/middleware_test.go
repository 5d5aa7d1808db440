package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/auth"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if seen == "" {
			t.Fatal("expected a request ID in context")
		}
		if got := rec.Header().Get("X-Request-ID"); got != seen {
			t.Errorf("response header = %q, context = %q", got, seen)
		}
	})

	t.Run("keeps a client-provided id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-id-123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "client-id-123" {
			t.Errorf("request ID = %q, want client-id-123", seen)
		}
	})
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f fakeVerifier) VerifyToken(string) (*auth.Claims, error) {
	return f.claims, f.err
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.UserID != userID {
			t.Error("expected claims in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token passes", func(t *testing.T) {
		mw := AuthMiddleware(fakeVerifier{claims: &auth.Claims{UserID: userID, UserType: auth.UserDoctor}})
		req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Authorization", "Bearer some-token")

		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		mw := AuthMiddleware(fakeVerifier{claims: &auth.Claims{UserID: userID}})
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/doctors", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad token rejected", func(t *testing.T) {
		mw := AuthMiddleware(fakeVerifier{err: auth.ErrInvalidToken})
		req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
