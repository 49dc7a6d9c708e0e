package magang

import "time"

type Magang struct {
	ID             int64      `gorm:"primaryKey"`
	SiswaID        int64      `gorm:"column:siswa_id;not null;index"`
	DudiID         int64      `gorm:"column:dudi_id;not null;index"`
	GuruID         int64      `gorm:"column:guru_id;not null;index"`
	TanggalMulai   time.Time  `gorm:"column:tanggal_mulai;type:date;not null"`
	TanggalSelesai time.Time  `gorm:"column:tanggal_selesai;type:date;not null"`
	Status         string     `gorm:"column:status;not null;default:pending;index"`
	NilaiAkhir     *float64   `gorm:"column:nilai_akhir"`
	Catatan        string     `gorm:"column:catatan"`
	DecidedAt      *time.Time `gorm:"column:decided_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Magang) TableName() string {
	return "magang"
}
