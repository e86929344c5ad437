package crew

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

func ParseRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// User is a base planner account. PasswordHash is nil for accounts created
// through OAuth only.
type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	AvatarURL    *string   `json:"avatar_url"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NewUser struct {
	FirstName    string
	Email        string
	PasswordHash *string
	AvatarURL    *string
	Role         Role
}
