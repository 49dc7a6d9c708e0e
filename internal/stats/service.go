package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/simmas/internal"
)

type Repository interface {
	UsersByRole(ctx context.Context) ([]Count, error)
	DudiByStatus(ctx context.Context) ([]Count, error)
	MagangByStatus(ctx context.Context) ([]Count, error)
	PendingLogbooks(ctx context.Context) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Summary(ctx context.Context) (*Stats, error) {
	users, err := s.repo.UsersByRole(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count users", err)
	}
	dudi, err := s.repo.DudiByStatus(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count dudi", err)
	}
	magang, err := s.repo.MagangByStatus(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count magang", err)
	}
	pending, err := s.repo.PendingLogbooks(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count logbooks", err)
	}

	st := &Stats{PendingLogbooks: pending, GeneratedAt: s.now().UTC()}
	st.UsersByRole, st.TotalUsers = buckets(roles, users)
	st.DudiByStatus, _ = buckets(dudiStatuses, dudi)
	st.MagangByStatus, st.TotalMagang = buckets(magangStatuses, magang)
	return st, nil
}
