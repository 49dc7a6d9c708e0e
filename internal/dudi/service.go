package dudi

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/core/common/validation"
	dudiDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/dudi"
)

var ErrNoRows = errors.New("no rows")

type RepositoryAPI interface {
	GetAll(ctx context.Context, status string) ([]*dudiDatamodel.Dudi, error)
	GetByID(ctx context.Context, id int64) (*dudiDatamodel.Dudi, error)
	Create(ctx context.Context, d *dudiDatamodel.Dudi) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) (*dudiDatamodel.Dudi, error)
	// Occupancy counts active-track internships per dudi id.
	Occupancy(ctx context.Context, ids []int64) (map[int64]int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns partners with their current occupancy. Siswa only ever see
// aktif partners, whatever filter they pass.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter) ([]*Dudi, error) {
	status := filter.Status
	if actor.Role == auth.RoleSiswa {
		status = StatusAktif
	}

	rows, err := s.repo.GetAll(ctx, status)
	if err != nil {
		return nil, internal.NewInternalError("failed to list dudi", err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	occupancy, err := s.repo.Occupancy(ctx, ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to count occupancy", err)
	}

	out := make([]*Dudi, 0, len(rows))
	for _, row := range rows {
		d := FromDataModel(row)
		d.Terisi = occupancy[d.ID]
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*Dudi, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrDudiNotFound
		}
		return nil, internal.NewInternalError("failed to load dudi", err)
	}
	d := FromDataModel(row)
	if actor.Role == auth.RoleSiswa && !d.IsAktif() {
		return nil, ErrDudiNotFound
	}

	occupancy, err := s.repo.Occupancy(ctx, []int64{id})
	if err != nil {
		return nil, internal.NewInternalError("failed to count occupancy", err)
	}
	d.Terisi = occupancy[id]
	return d, nil
}

func (s *Service) Create(ctx context.Context, dto CreateDudiDTO) (*Dudi, error) {
	dto.NamaPerusahaan = strings.TrimSpace(dto.NamaPerusahaan)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if dto.Status == "" {
		dto.Status = StatusPending
	}

	row := &dudiDatamodel.Dudi{
		NamaPerusahaan:  dto.NamaPerusahaan,
		Alamat:          dto.Alamat,
		Telepon:         dto.Telepon,
		Email:           dto.Email,
		PenanggungJawab: dto.PenanggungJawab,
		KuotaMagang:     dto.KuotaMagang,
		Status:          dto.Status,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to create dudi", err)
	}

	s.logger.InfoContext(ctx, "dudi created", "dudi_id", row.ID, "kuota", row.KuotaMagang, "status", row.Status)
	return FromDataModel(row), nil
}

// Update applies a partial change. Lowering the quota below the current
// occupancy is allowed; it only blocks new applications and approvals.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateDudiDTO) (*Dudi, error) {
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.Update(ctx, id, dto.Changes())
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrDudiNotFound
		}
		return nil, internal.NewInternalError("failed to update dudi", err)
	}

	s.logger.InfoContext(ctx, "dudi updated", "dudi_id", row.ID, "kuota", row.KuotaMagang, "status", row.Status)
	return FromDataModel(row), nil
}
