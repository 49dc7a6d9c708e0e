package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuru  Role = "guru"
	RoleSiswa Role = "siswa"
)

// ParseRole normalizes raw input and rejects anything outside the enum.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuru, RoleSiswa:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Identity is the claim set carried by a session token.
type Identity struct {
	UserID      int64
	Email       string
	DisplayName string
	Role        Role
}

type Claims struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}

// Session is rebuilt from a verified token on every request.
type Session struct {
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Session) Actor() Actor {
	return Actor{UserID: s.UserID, Role: s.Role}
}

// Actor is whoever attempts a domain operation: a session user or the
// scheduler acting on its own.
type Actor struct {
	UserID int64
	Role   Role
	System bool
}

func SystemActor() Actor {
	return Actor{System: true}
}

func (a Actor) Is(role Role) bool {
	return !a.System && a.Role == role
}
