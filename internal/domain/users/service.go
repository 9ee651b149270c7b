package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailPattern    = regexp.MustCompile(`[^@]+@[^@]+\.[^@]+`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// TokenIssuer firma el token de sesión para un usuario logueado.
type TokenIssuer interface {
	Issue(claims auth.Claims) (string, time.Time, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
	log    logger.Logger

	now      func() time.Time
	hashCost int
}

func NewService(repo Repository, tokens TokenIssuer, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		tokens:   tokens,
		log:      log.With(map[string]any{"component": "users"}),
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register crea una cuenta con rol user. El rol admin solo se crea por EnsureAdmin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, auth.RoleUser)
}

// EnsureAdmin crea el admin de bootstrap si su email todavía no existe.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil
	}
	_, err := s.repo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	u, err := s.create(ctx, in, auth.RoleAdmin)
	if err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", map[string]any{"username": u.Username})
	return nil
}

func (s *Service) create(ctx context.Context, in RegisterInput, role auth.Role) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return User{}, fmt.Errorf("%w: please fill out the form", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return User{}, ErrInvalidEmail
	}
	if !usernamePattern.MatchString(username) {
		return User{}, ErrInvalidUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Login busca por email y compara el hash; cualquier falla es ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	if s.tokens == nil {
		return Session{}, ErrTokensNotConfigured
	}
	token, exp, err := s.tokens.Issue(auth.Claims{Username: u.Username, Role: u.Role})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// List es solo para admins.
func (s *Service) List(ctx context.Context, role auth.Role) ([]User, error) {
	if role != auth.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}
