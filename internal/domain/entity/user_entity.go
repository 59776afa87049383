package entity

import (
	"time"
)

// Allowed account roles. The chat frontend distinguishes the two
// participant kinds; admin is a separate flag, not a role.
const (
	RoleMother = "mother"
	RoleDoctor = "doctor"
)

// User is the aggregate root for the credential store.
// Password holds a bcrypt hash and must never be serialized to callers.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      string
	AvatarURL string
	IsOnline  bool
	IsBanned  bool
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the projection returned by the API. No password field exists
// here at all, so a marshaling mistake cannot leak the hash.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	IsOnline  bool      `json:"is_online"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		IsOnline:  u.IsOnline,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// ValidRole reports whether role is one of the allowed account roles.
func ValidRole(role string) bool {
	return role == RoleMother || role == RoleDoctor
}
