package dudi

import "time"

type Dudi struct {
	ID              int64     `gorm:"primaryKey"`
	NamaPerusahaan  string    `gorm:"column:nama_perusahaan;not null"`
	Alamat          string    `gorm:"column:alamat"`
	Telepon         string    `gorm:"column:telepon"`
	Email           string    `gorm:"column:email"`
	PenanggungJawab string    `gorm:"column:penanggung_jawab"`
	KuotaMagang     int       `gorm:"column:kuota_magang;not null;default:0"`
	Status          string    `gorm:"column:status;not null;default:pending"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Dudi) TableName() string {
	return "dudi"
}
