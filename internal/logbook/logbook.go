package logbook

import (
	"time"

	"github.com/frahmantamala/simmas/internal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Entry struct {
	ID               int64      `json:"id"`
	MagangID         int64      `json:"magang_id"`
	Tanggal          time.Time  `json:"tanggal"`
	Kegiatan         string     `json:"kegiatan"`
	Kendala          string     `json:"kendala,omitempty"`
	StatusVerifikasi Status     `json:"status_verifikasi"`
	CatatanGuru      string     `json:"catatan_guru,omitempty"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MagangRef is what the sub-flow needs to know about the parent internship.
type MagangRef struct {
	ID           int64
	SiswaID      int64
	GuruID       int64
	Status       string
	TanggalMulai time.Time
}

const magangBerlangsung = "berlangsung"

var (
	ErrEntryNotFound   = internal.NewNotFoundError("logbook entry not found", internal.ErrCodeLogbookNotFound)
	ErrMagangNotFound  = internal.NewNotFoundError("magang not found", internal.ErrCodeMagangNotFound)
	ErrNotOwner        = internal.NewForbiddenError("magang belongs to another siswa", internal.ErrCodeNotOwner)
	ErrNotAssigned     = internal.NewForbiddenError("magang is assigned to another guru", internal.ErrCodeNotAssigned)
	ErrMagangNotActive = internal.NewInvalidTransitionError("logbook entries can only be filed while the magang is berlangsung", internal.ErrCodeMagangNotRunning)
	ErrAlreadyVerified = internal.NewInvalidTransitionError("logbook entry has already been verified", internal.ErrCodeAlreadyVerified)
)
