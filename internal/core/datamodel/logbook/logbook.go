package logbook

import "time"

type Logbook struct {
	ID               int64      `gorm:"primaryKey"`
	MagangID         int64      `gorm:"column:magang_id;not null;index"`
	Tanggal          time.Time  `gorm:"column:tanggal;type:date;not null"`
	Kegiatan         string     `gorm:"column:kegiatan;not null"`
	Kendala          string     `gorm:"column:kendala"`
	StatusVerifikasi string     `gorm:"column:status_verifikasi;not null;default:pending"`
	CatatanGuru      string     `gorm:"column:catatan_guru"`
	VerifiedAt       *time.Time `gorm:"column:verified_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Logbook) TableName() string {
	return "logbook"
}
