package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/simmas/internal/stats"
	"github.com/jmoiron/sqlx"
)

// StatsRepository runs read-only aggregate queries with sqlx. The SQL stays
// portable so the same queries run against SQLite in tests.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

const (
	usersByRoleQuery     = `SELECT role AS label, COUNT(*) AS total FROM users WHERE is_active = ? GROUP BY role`
	dudiByStatusQuery    = `SELECT status AS label, COUNT(*) AS total FROM dudi GROUP BY status`
	magangByStatusQuery  = `SELECT status AS label, COUNT(*) AS total FROM magang GROUP BY status`
	pendingLogbooksQuery = `SELECT COUNT(*) FROM logbook WHERE status_verifikasi = ?`
)

func (r *StatsRepository) UsersByRole(ctx context.Context) ([]stats.Count, error) {
	return r.group(ctx, r.db.Rebind(usersByRoleQuery), true)
}

func (r *StatsRepository) DudiByStatus(ctx context.Context) ([]stats.Count, error) {
	return r.group(ctx, dudiByStatusQuery)
}

func (r *StatsRepository) MagangByStatus(ctx context.Context) ([]stats.Count, error) {
	return r.group(ctx, magangByStatusQuery)
}

func (r *StatsRepository) PendingLogbooks(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(pendingLogbooksQuery), "pending"); err != nil {
		return 0, fmt.Errorf("pending logbooks query: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) group(ctx context.Context, query string, args ...interface{}) ([]stats.Count, error) {
	var rows []stats.Count
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	return rows, nil
}
