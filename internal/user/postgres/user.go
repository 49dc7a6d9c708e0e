package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/user"
	"github.com/frahmantamala/simmas/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (r *UserRepository) FindSiswaByUserID(ctx context.Context, userID int64) (*user.SiswaProfile, error) {
	var s userDatamodel.Siswa
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user.SiswaProfile{
		ID:      s.ID,
		NIS:     s.NIS,
		Kelas:   s.Kelas,
		Jurusan: s.Jurusan,
		Alamat:  s.Alamat,
		Telepon: s.Telepon,
	}, nil
}

func (r *UserRepository) FindGuruByUserID(ctx context.Context, userID int64) (*user.GuruProfile, error) {
	var g userDatamodel.Guru
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user.GuruProfile{
		ID:      g.ID,
		NIP:     g.NIP,
		Alamat:  g.Alamat,
		Telepon: g.Telepon,
	}, nil
}

func (r *UserRepository) GuruExists(ctx context.Context, guruID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userDatamodel.Guru{}).Where("id = ?", guruID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.ErrNoRows
	}
	return err
}
