package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/simmas/internal/auth"
	userDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// FindByEmail looks the user up case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, err
	}

	return &auth.Credential{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
	}, nil
}
