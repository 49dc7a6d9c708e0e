package postgres

import (
	"context"
	"errors"
	"time"

	logbookDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/logbook"
	magangDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/magang"
	"github.com/frahmantamala/simmas/internal/logbook"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogbookRepository struct {
	db *gorm.DB
}

func NewLogbookRepository(db *gorm.DB) *LogbookRepository {
	return &LogbookRepository{db: db}
}

func (r *LogbookRepository) WithinTx(ctx context.Context, fn func(tx logbook.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LogbookRepository{db: tx})
	})
}

func (r *LogbookRepository) LockMagang(ctx context.Context, magangID int64) (*logbook.MagangRef, error) {
	return r.findMagang(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), magangID)
}

func (r *LogbookRepository) GetMagang(ctx context.Context, magangID int64) (*logbook.MagangRef, error) {
	return r.findMagang(r.db.WithContext(ctx), magangID)
}

func (r *LogbookRepository) findMagang(q *gorm.DB, magangID int64) (*logbook.MagangRef, error) {
	var m magangDatamodel.Magang
	if err := q.First(&m, magangID).Error; err != nil {
		return nil, mapErr(err)
	}
	return &logbook.MagangRef{
		ID:           m.ID,
		SiswaID:      m.SiswaID,
		GuruID:       m.GuruID,
		Status:       m.Status,
		TanggalMulai: m.TanggalMulai,
	}, nil
}

func (r *LogbookRepository) LockEntry(ctx context.Context, id int64) (*logbook.Entry, error) {
	var row logbookDatamodel.Logbook
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return toDomain(&row), nil
}

func (r *LogbookRepository) Create(ctx context.Context, e *logbook.Entry) error {
	row := &logbookDatamodel.Logbook{
		MagangID:         e.MagangID,
		Tanggal:          e.Tanggal,
		Kegiatan:         e.Kegiatan,
		Kendala:          e.Kendala,
		StatusVerifikasi: string(e.StatusVerifikasi),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *LogbookRepository) SaveVerification(ctx context.Context, e *logbook.Entry) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Model(&logbookDatamodel.Logbook{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"status_verifikasi": string(e.StatusVerifikasi),
			"catatan_guru":      e.CatatanGuru,
			"verified_at":       e.VerifiedAt,
			"updated_at":        now,
		}).Error
	if err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

func (r *LogbookRepository) ListByMagang(ctx context.Context, magangID int64) ([]*logbook.Entry, error) {
	var rows []logbookDatamodel.Logbook
	err := r.db.WithContext(ctx).
		Where("magang_id = ?", magangID).
		Order("tanggal DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*logbook.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

func toDomain(row *logbookDatamodel.Logbook) *logbook.Entry {
	return &logbook.Entry{
		ID:               row.ID,
		MagangID:         row.MagangID,
		Tanggal:          row.Tanggal,
		Kegiatan:         row.Kegiatan,
		Kendala:          row.Kendala,
		StatusVerifikasi: logbook.Status(row.StatusVerifikasi),
		CatatanGuru:      row.CatatanGuru,
		VerifiedAt:       row.VerifiedAt,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return logbook.ErrNoRows
	}
	return err
}
