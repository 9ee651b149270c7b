package auth

import "strings"

// Role del usuario. El set es fijo: user | admin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normaliza; cualquier valor desconocido cae a RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Claims representa la información extraída del token.
type Claims struct {
	Username string
	Role     Role
}
