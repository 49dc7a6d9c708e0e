package dudi

import (
	"time"

	"github.com/frahmantamala/simmas/internal"
	dudiDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/dudi"
)

const (
	StatusAktif    = "aktif"
	StatusNonaktif = "nonaktif"
	StatusPending  = "pending"
)

var ErrDudiNotFound = internal.NewNotFoundError("dudi not found", internal.ErrCodeDudiNotFound)

type Dudi struct {
	ID              int64     `json:"id"`
	NamaPerusahaan  string    `json:"nama_perusahaan"`
	Alamat          string    `json:"alamat"`
	Telepon         string    `json:"telepon,omitempty"`
	Email           string    `json:"email,omitempty"`
	PenanggungJawab string    `json:"penanggung_jawab,omitempty"`
	KuotaMagang     int       `json:"kuota_magang"`
	Status          string    `json:"status"`
	Terisi          int64     `json:"terisi"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SisaKuota is the number of slots still open to new applications.
func (d *Dudi) SisaKuota() int64 {
	left := int64(d.KuotaMagang) - d.Terisi
	if left < 0 {
		return 0
	}
	return left
}

func (d *Dudi) IsAktif() bool {
	return d.Status == StatusAktif
}

func ToDataModel(d *Dudi) *dudiDatamodel.Dudi {
	return &dudiDatamodel.Dudi{
		ID:              d.ID,
		NamaPerusahaan:  d.NamaPerusahaan,
		Alamat:          d.Alamat,
		Telepon:         d.Telepon,
		Email:           d.Email,
		PenanggungJawab: d.PenanggungJawab,
		KuotaMagang:     d.KuotaMagang,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func FromDataModel(d *dudiDatamodel.Dudi) *Dudi {
	return &Dudi{
		ID:              d.ID,
		NamaPerusahaan:  d.NamaPerusahaan,
		Alamat:          d.Alamat,
		Telepon:         d.Telepon,
		Email:           d.Email,
		PenanggungJawab: d.PenanggungJawab,
		KuotaMagang:     d.KuotaMagang,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
