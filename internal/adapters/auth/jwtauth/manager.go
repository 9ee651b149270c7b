package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plant-disease-history/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty       = errors.New("token is empty")
	ErrSecretNotSet     = errors.New("jwt secret not configured")
	ErrClaimsIncomplete = errors.New("token claims missing username")
)

const DefaultTTL = 12 * time.Hour

// Manager firma y verifica tokens HS256. Implementa auth.AuthVerifier y users.TokenIssuer.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Issue firma un token con el username como subject y el rol como claim propia.
func (m *Manager) Issue(c auth.Claims) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrSecretNotSet
	}
	if strings.TrimSpace(c.Username) == "" {
		return "", time.Time{}, ErrClaimsIncomplete
	}

	now := m.now()
	exp := now.Add(m.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: string(auth.ParseRole(string(c.Role))),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if len(m.secret) == 0 {
		return auth.Claims{}, ErrSecretNotSet
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("parse token: %w", err)
	}

	username := strings.TrimSpace(claims.Subject)
	if username == "" {
		return auth.Claims{}, ErrClaimsIncomplete
	}
	return auth.Claims{Username: username, Role: auth.ParseRole(claims.Role)}, nil
}
