package postgres

import (
	"context"
	"errors"
	"time"

	dudiDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/dudi"
	magangDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/magang"
	userDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/user"
	"github.com/frahmantamala/simmas/internal/magang"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MagangRepository struct {
	db *gorm.DB
}

func NewMagangRepository(db *gorm.DB) *MagangRepository {
	return &MagangRepository{db: db}
}

func (r *MagangRepository) WithinTx(ctx context.Context, fn func(tx magang.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&MagangRepository{db: tx})
	})
}

func (r *MagangRepository) forUpdate(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *MagangRepository) LockDudi(ctx context.Context, dudiID int64) (*magang.DudiSlot, error) {
	var d dudiDatamodel.Dudi
	if err := r.forUpdate(ctx).First(&d, dudiID).Error; err != nil {
		return nil, mapErr(err)
	}
	return &magang.DudiSlot{ID: d.ID, Status: d.Status, Kuota: d.KuotaMagang}, nil
}

func (r *MagangRepository) LockSiswa(ctx context.Context, siswaID int64) error {
	var s userDatamodel.Siswa
	return mapErr(r.forUpdate(ctx).Select("id").First(&s, siswaID).Error)
}

func (r *MagangRepository) LockMagang(ctx context.Context, id int64) (*magang.Magang, error) {
	var m magangDatamodel.Magang
	if err := r.forUpdate(ctx).First(&m, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return toDomain(&m), nil
}

func (r *MagangRepository) CountByDudi(ctx context.Context, dudiID int64, statuses []magang.Status, excludeID int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&magangDatamodel.Magang{}).
		Where("dudi_id = ? AND status IN ?", dudiID, statusStrings(statuses))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *MagangRepository) CountBySiswa(ctx context.Context, siswaID int64, statuses []magang.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&magangDatamodel.Magang{}).
		Where("siswa_id = ? AND status IN ?", siswaID, statusStrings(statuses)).
		Count(&n).Error
	return n, err
}

func (r *MagangRepository) Create(ctx context.Context, m *magang.Magang) error {
	row := toDatamodel(m)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	m.UpdatedAt = row.UpdatedAt
	return nil
}

// SaveTransition writes the fields a transition may touch and nothing else.
func (r *MagangRepository) SaveTransition(ctx context.Context, m *magang.Magang) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&magangDatamodel.Magang{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"status":      string(m.Status),
			"nilai_akhir": m.NilaiAkhir,
			"catatan":     m.Catatan,
			"decided_at":  m.DecidedAt,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return magang.ErrNoRows
	}
	m.UpdatedAt = now
	return nil
}

func (r *MagangRepository) GetByID(ctx context.Context, id int64) (*magang.Magang, error) {
	var m magangDatamodel.Magang
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return toDomain(&m), nil
}

func (r *MagangRepository) List(ctx context.Context, filter magang.ListFilter) ([]*magang.Magang, error) {
	q := r.db.WithContext(ctx).Model(&magangDatamodel.Magang{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.DudiID > 0 {
		q = q.Where("dudi_id = ?", filter.DudiID)
	}
	if filter.SiswaID > 0 {
		q = q.Where("siswa_id = ?", filter.SiswaID)
	}
	if filter.GuruID > 0 {
		q = q.Where("guru_id = ?", filter.GuruID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var rows []magangDatamodel.Magang
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*magang.Magang, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

// FindDueForStart lists diterima rows whose start date is today or earlier,
// oldest first.
func (r *MagangRepository) FindDueForStart(ctx context.Context, today time.Time, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&magangDatamodel.Magang{}).
		Where("status = ? AND tanggal_mulai <= ?", string(magang.StatusDiterima), today).
		Order("tanggal_mulai ASC").
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func toDomain(m *magangDatamodel.Magang) *magang.Magang {
	return &magang.Magang{
		ID:             m.ID,
		SiswaID:        m.SiswaID,
		DudiID:         m.DudiID,
		GuruID:         m.GuruID,
		TanggalMulai:   magang.DateOnly(m.TanggalMulai),
		TanggalSelesai: magang.DateOnly(m.TanggalSelesai),
		Status:         magang.Status(m.Status),
		NilaiAkhir:     m.NilaiAkhir,
		Catatan:        m.Catatan,
		DecidedAt:      m.DecidedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toDatamodel(m *magang.Magang) *magangDatamodel.Magang {
	return &magangDatamodel.Magang{
		ID:             m.ID,
		SiswaID:        m.SiswaID,
		DudiID:         m.DudiID,
		GuruID:         m.GuruID,
		TanggalMulai:   m.TanggalMulai,
		TanggalSelesai: m.TanggalSelesai,
		Status:         string(m.Status),
		NilaiAkhir:     m.NilaiAkhir,
		Catatan:        m.Catatan,
		DecidedAt:      m.DecidedAt,
	}
}

func statusStrings(statuses []magang.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return magang.ErrNoRows
	}
	return err
}
