package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/simmas/internal"
)

const DefaultBCryptCost = 10

var ErrEmptyPassword = internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBCryptCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", internal.NewValidationFieldError("password", "password must not exceed 72 bytes", internal.ErrCodeValidationFailed)
		}
		return "", internal.NewInternalError("failed to hash password", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. Malformed hashes verify false.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
