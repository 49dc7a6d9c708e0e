package magang

import (
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

// CreateMagangDTO is a siswa's application.
type CreateMagangDTO struct {
	DudiID         int64  `json:"dudi_id" validate:"required,gt=0"`
	GuruID         int64  `json:"guru_id" validate:"required,gt=0"`
	TanggalMulai   string `json:"tanggal_mulai" validate:"required,datetime=2006-01-02"`
	TanggalSelesai string `json:"tanggal_selesai" validate:"required,datetime=2006-01-02"`
}

// Period validates the DTO and returns its parsed dates.
func (d CreateMagangDTO) Period() (time.Time, time.Time, *internal.AppError) {
	if err := validation.Struct(d); err != nil {
		return time.Time{}, time.Time{}, err
	}
	mulai, _ := time.Parse(dateLayout, d.TanggalMulai)
	selesai, _ := time.Parse(dateLayout, d.TanggalSelesai)

	v := validation.NewValidator()
	v.Field("tanggal_selesai", selesai).NotBefore(mulai, "tanggal_mulai")
	if err := v.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return mulai, selesai, nil
}

// TransitionDTO is the body of POST /magang/{id}/transitions.
type TransitionDTO struct {
	Action     string   `json:"action" validate:"required,oneof=approve reject start complete"`
	NilaiAkhir *float64 `json:"nilai_akhir,omitempty"`
	Catatan    string   `json:"catatan,omitempty" validate:"max=1000"`
}

// TransitionInput carries the optional fields some actions need.
type TransitionInput struct {
	NilaiAkhir *float64
	Catatan    string
}

func (in TransitionInput) validateFor(action Action) *internal.AppError {
	v := validation.NewValidator()
	if action == ActionComplete {
		v.Field("nilai_akhir", in.NilaiAkhir).Required().Range(0, 100, internal.ErrCodeInvalidGrade)
	}
	v.Field("catatan", in.Catatan).MaxLength(1000)
	return v.Validate()
}

// ListFilter narrows List. SiswaID and GuruID are set by the engine from the
// caller's identity, never from the query string.
type ListFilter struct {
	Status  Status
	DudiID  int64
	SiswaID int64
	GuruID  int64
	Limit   int
	Offset  int
}
