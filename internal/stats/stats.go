package stats

import "time"

// Stats is the admin dashboard summary.
type Stats struct {
	UsersByRole     map[string]int64 `json:"users_by_role"`
	DudiByStatus    map[string]int64 `json:"dudi_by_status"`
	MagangByStatus  map[string]int64 `json:"magang_by_status"`
	PendingLogbooks int64            `json:"pending_logbooks"`
	TotalUsers      int64            `json:"total_users"`
	TotalMagang     int64            `json:"total_magang"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// Count is one GROUP BY bucket.
type Count struct {
	Label string `db:"label"`
	Total int64  `db:"total"`
}

var (
	roles          = []string{"admin", "guru", "siswa"}
	dudiStatuses   = []string{"aktif", "nonaktif", "pending"}
	magangStatuses = []string{"pending", "diterima", "ditolak", "berlangsung", "selesai"}
)

// buckets fills every known label, including those with no rows.
func buckets(known []string, counts []Count) (map[string]int64, int64) {
	out := make(map[string]int64, len(known))
	for _, k := range known {
		out[k] = 0
	}
	var total int64
	for _, c := range counts {
		out[c.Label] = c.Total
		total += c.Total
	}
	return out, total
}
