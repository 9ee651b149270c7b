package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"plant-disease-history/internal/domain/users"
)

// userRepo indexa por email y por username, ambos sin distinguir mayúsculas.
type userRepo struct {
	mu         sync.RWMutex
	byEmail    map[string]users.User
	byUsername map[string]string // username -> key de byEmail
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byEmail:    make(map[string]users.User),
		byUsername: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return users.ErrEmailTaken
	}
	name := strings.ToLower(u.Username)
	if _, exists := r.byUsername[name]; exists {
		return users.ErrUsernameTaken
	}
	r.byEmail[key] = u
	r.byUsername[name] = key
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, u)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Username < out[j].Username
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
