package users

import (
	"time"

	"plant-disease-history/internal/ports/auth"
)

// User es una cuenta registrada. El hash nunca sale por la API.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
}
