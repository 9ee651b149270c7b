package middleware

import (
	"context"
	"net/http"
	"strings"

	"plant-disease-history/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	langKey   ctxKey = "lang"
)

const (
	HeaderDebugUser = "X-Debug-User-ID"
	HeaderDebugRole = "X-Debug-Role"
)

// AuthContext:
// - Si viene Bearer token y hay verifier => intenta Verify() y setea claims.
// - Si devMode => acepta X-Debug-User-ID (+ X-Debug-Role opcional) sin token.
// - Si no hay claims, el request sigue igual; los handlers deciden 401/403.
func AuthContext(verifier auth.AuthVerifier, devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r.Header.Get("Authorization")); token != "" && verifier != nil {
				claims, err := verifier.Verify(r.Context(), token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
				// No cortamos aquí. El handler decide 401.
			}

			if devMode {
				if user := strings.TrimSpace(r.Header.Get(HeaderDebugUser)); user != "" {
					claims := auth.Claims{
						Username: user,
						Role:     auth.ParseRole(r.Header.Get(HeaderDebugRole)),
					}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
