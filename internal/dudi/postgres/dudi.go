package postgres

import (
	"context"
	"errors"

	dudiDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/dudi"
	magangDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/magang"
	"github.com/frahmantamala/simmas/internal/dudi"
	"github.com/frahmantamala/simmas/internal/magang"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DudiRepository struct {
	db *gorm.DB
}

func NewDudiRepository(db *gorm.DB) dudi.RepositoryAPI {
	return &DudiRepository{db: db}
}

func (r *DudiRepository) GetAll(ctx context.Context, status string) ([]*dudiDatamodel.Dudi, error) {
	var rows []*dudiDatamodel.Dudi
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("nama_perusahaan ASC").Find(&rows).Error
	return rows, err
}

func (r *DudiRepository) GetByID(ctx context.Context, id int64) (*dudiDatamodel.Dudi, error) {
	var row dudiDatamodel.Dudi
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dudi.ErrNoRows
		}
		return nil, err
	}
	return &row, nil
}

func (r *DudiRepository) Create(ctx context.Context, d *dudiDatamodel.Dudi) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Update writes only the given columns with the row locked and returns
// the row as stored.
func (r *DudiRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) (*dudiDatamodel.Dudi, error) {
	var row dudiDatamodel.Dudi
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dudi.ErrNoRows
			}
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type occupancyRow struct {
	DudiID int64
	Total  int64
}

func (r *DudiRepository) Occupancy(ctx context.Context, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	statuses := make([]string, len(magang.ActiveTrackStatuses))
	for i, s := range magang.ActiveTrackStatuses {
		statuses[i] = string(s)
	}

	var rows []occupancyRow
	err := r.db.WithContext(ctx).Model(&magangDatamodel.Magang{}).
		Select("dudi_id, COUNT(*) AS total").
		Where("dudi_id IN ? AND status IN ?", ids, statuses).
		Group("dudi_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.DudiID] = row.Total
	}
	return out, nil
}
