package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"plant-disease-history/internal/ports/auth"
)

type stubVerifier struct {
	valid string
}

func (s stubVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token != s.valid {
		return auth.Claims{}, errors.New("invalid token")
	}
	return auth.Claims{Username: "alice", Role: auth.RoleAdmin}, nil
}

// serve corre el middleware y devuelve los claims que vio el handler.
func serve(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) (auth.Claims, bool) {
	t.Helper()

	var (
		got auth.Claims
		ok  bool
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestAuthContext_BearerToken(t *testing.T) {
	mw := AuthContext(stubVerifier{valid: "good"}, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	claims, ok := serve(t, mw, req)
	if !ok || claims.Username != "alice" || claims.Role != auth.RoleAdmin {
		t.Fatalf("expected verified claims, got %+v ok=%v", claims, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	if _, ok := serve(t, mw, req); ok {
		t.Fatalf("invalid token must not set claims")
	}
}

func TestAuthContext_DebugHeadersOnlyInDevMode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderDebugUser, "bob")
	req.Header.Set(HeaderDebugRole, "superuser")

	if _, ok := serve(t, AuthContext(nil, false), req); ok {
		t.Fatalf("debug headers must be ignored outside dev mode")
	}

	claims, ok := serve(t, AuthContext(nil, true), req)
	if !ok || claims.Username != "bob" {
		t.Fatalf("expected debug claims, got %+v ok=%v", claims, ok)
	}
	if claims.Role != auth.RoleUser {
		t.Fatalf("unknown role must fall back to user, got %q", claims.Role)
	}
}

func TestAuthContext_TokenWinsOverDebugHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good")
	req.Header.Set(HeaderDebugUser, "bob")

	claims, ok := serve(t, AuthContext(stubVerifier{valid: "good"}, true), req)
	if !ok || claims.Username != "alice" {
		t.Fatalf("expected token claims, got %+v", claims)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"Bearer":       "",
		"Basic abc":    "",
		"Bearer  abc ": "abc",
		"BEARER xyz":   "xyz",
		"Bearer a b":   "a b",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
