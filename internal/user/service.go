package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/simmas/internal"
)

// ErrNoRows is returned by repositories when a lookup matches nothing.
var ErrNoRows = errors.New("no rows")

type Repository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindSiswaByUserID(ctx context.Context, userID int64) (*SiswaProfile, error)
	FindGuruByUserID(ctx context.Context, userID int64) (*GuruProfile, error)
	GuruExists(ctx context.Context, guruID int64) (bool, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Profile loads the account and the profile matching its role.
func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	p := &Profile{User: *u}
	switch u.Role {
	case "siswa":
		siswa, err := s.repo.FindSiswaByUserID(ctx, userID)
		if err != nil && !errors.Is(err, ErrNoRows) {
			return nil, internal.NewInternalError("failed to load siswa profile", err)
		}
		p.Siswa = siswa
	case "guru":
		guru, err := s.repo.FindGuruByUserID(ctx, userID)
		if err != nil && !errors.Is(err, ErrNoRows) {
			return nil, internal.NewInternalError("failed to load guru profile", err)
		}
		p.Guru = guru
	}

	if (u.Role == "siswa" && p.Siswa == nil) || (u.Role == "guru" && p.Guru == nil) {
		s.logger.Warn("account has no profile row", "user_id", userID, "role", u.Role)
	}
	return p, nil
}

// SiswaIDForUser resolves the siswa profile id of a siswa account.
func (s *Service) SiswaIDForUser(ctx context.Context, userID int64) (int64, error) {
	siswa, err := s.repo.FindSiswaByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return 0, ErrProfileNotFound
		}
		return 0, internal.NewInternalError("failed to load siswa profile", err)
	}
	return siswa.ID, nil
}

// GuruIDForUser resolves the guru profile id of a guru account.
func (s *Service) GuruIDForUser(ctx context.Context, userID int64) (int64, error) {
	guru, err := s.repo.FindGuruByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return 0, ErrProfileNotFound
		}
		return 0, internal.NewInternalError("failed to load guru profile", err)
	}
	return guru.ID, nil
}

func (s *Service) GuruExists(ctx context.Context, guruID int64) (bool, error) {
	ok, err := s.repo.GuruExists(ctx, guruID)
	if err != nil {
		return false, internal.NewInternalError("failed to look up guru", err)
	}
	return ok, nil
}
