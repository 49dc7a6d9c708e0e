package dudi

import "strings"

type CreateDudiDTO struct {
	NamaPerusahaan  string `json:"nama_perusahaan" validate:"required,max=200"`
	Alamat          string `json:"alamat" validate:"required,max=500"`
	Telepon         string `json:"telepon,omitempty" validate:"max=30"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	PenanggungJawab string `json:"penanggung_jawab,omitempty" validate:"max=200"`
	KuotaMagang     int    `json:"kuota_magang" validate:"gte=0"`
	Status          string `json:"status,omitempty" validate:"omitempty,oneof=aktif nonaktif pending"`
}

// UpdateDudiDTO changes only the fields that are present.
type UpdateDudiDTO struct {
	NamaPerusahaan  *string `json:"nama_perusahaan,omitempty" validate:"omitempty,min=1,max=200"`
	Alamat          *string `json:"alamat,omitempty" validate:"omitempty,min=1,max=500"`
	Telepon         *string `json:"telepon,omitempty" validate:"omitempty,max=30"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	PenanggungJawab *string `json:"penanggung_jawab,omitempty" validate:"omitempty,max=200"`
	KuotaMagang     *int    `json:"kuota_magang,omitempty" validate:"omitempty,gte=0"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=aktif nonaktif pending"`
}

// Normalize trims the free-text fields that must not end up blank.
func (d *UpdateDudiDTO) Normalize() {
	for _, f := range []*string{d.NamaPerusahaan, d.Alamat} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Changes maps the present fields to their columns.
func (d UpdateDudiDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.NamaPerusahaan != nil {
		changes["nama_perusahaan"] = *d.NamaPerusahaan
	}
	if d.Alamat != nil {
		changes["alamat"] = *d.Alamat
	}
	if d.Telepon != nil {
		changes["telepon"] = *d.Telepon
	}
	if d.Email != nil {
		changes["email"] = *d.Email
	}
	if d.PenanggungJawab != nil {
		changes["penanggung_jawab"] = *d.PenanggungJawab
	}
	if d.KuotaMagang != nil {
		changes["kuota_magang"] = *d.KuotaMagang
	}
	if d.Status != nil {
		changes["status"] = *d.Status
	}
	return changes
}

type ListFilter struct {
	Status string
}
