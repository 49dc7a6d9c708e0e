package magang

import (
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusDiterima    Status = "diterima"
	StatusDitolak     Status = "ditolak"
	StatusBerlangsung Status = "berlangsung"
	StatusSelesai     Status = "selesai"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDiterima, StatusDitolak, StatusBerlangsung, StatusSelesai:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDitolak || s == StatusSelesai
}

// ActiveTrackStatuses still occupy a Dudi slot and block a second application.
var ActiveTrackStatuses = []Status{StatusPending, StatusDiterima, StatusBerlangsung}

// ConfirmedStatuses are the slots a Dudi has actually granted.
var ConfirmedStatuses = []Status{StatusDiterima, StatusBerlangsung}

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
)

// transition is one edge of the lifecycle. Guru-actioned edges require the
// assigned guru; system marks edges the scheduler may take on its own.
type transition struct {
	from   Status
	to     Status
	guru   bool
	system bool
}

var transitions = map[Action]transition{
	ActionApprove:  {from: StatusPending, to: StatusDiterima, guru: true},
	ActionReject:   {from: StatusPending, to: StatusDitolak, guru: true},
	ActionStart:    {from: StatusDiterima, to: StatusBerlangsung, guru: true, system: true},
	ActionComplete: {from: StatusBerlangsung, to: StatusSelesai, guru: true},
}

func ParseAction(raw string) (Action, bool) {
	a := Action(raw)
	_, ok := transitions[a]
	return a, ok
}

// permits reports whether actor is the right kind of actor for t. It does
// not check assignment; that needs the row.
func (t transition) permits(actor auth.Actor) bool {
	if actor.System {
		return t.system
	}
	return t.guru && actor.Role == auth.RoleGuru
}

type Magang struct {
	ID             int64      `json:"id"`
	SiswaID        int64      `json:"siswa_id"`
	DudiID         int64      `json:"dudi_id"`
	GuruID         int64      `json:"guru_id"`
	TanggalMulai   time.Time  `json:"tanggal_mulai"`
	TanggalSelesai time.Time  `json:"tanggal_selesai"`
	Status         Status     `json:"status"`
	NilaiAkhir     *float64   `json:"nilai_akhir,omitempty"`
	Catatan        string     `json:"catatan,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DudiSlot is the part of a Dudi row the engine reads under lock.
type DudiSlot struct {
	ID     int64
	Status string
	Kuota  int
}

const DudiStatusAktif = "aktif"

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	ErrMagangNotFound   = internal.NewNotFoundError("magang not found", internal.ErrCodeMagangNotFound)
	ErrDudiNotFound     = internal.NewNotFoundError("dudi not found", internal.ErrCodeDudiNotFound)
	ErrGuruNotFound     = internal.NewNotFoundError("guru not found", internal.ErrCodeUserNotFound)
	ErrDudiNotActive    = internal.NewConflictError("dudi is not accepting interns", internal.ErrCodeDudiNotActive)
	ErrActiveInternship = internal.NewConflictError("siswa already has an internship", internal.ErrCodeActiveInternshipExists)
	ErrQuotaFull        = internal.NewCapacityExceededError("dudi quota is full")
	ErrNotAssigned      = internal.NewForbiddenError("magang is assigned to another guru", internal.ErrCodeNotAssigned)
	ErrNotOwner         = internal.NewForbiddenError("magang belongs to another siswa", internal.ErrCodeNotOwner)
	ErrProfileMissing   = internal.NewForbiddenError("no siswa profile is linked to this account", internal.ErrCodeProfileMissing)
	ErrStartNotReached  = internal.NewInvalidTransitionError("tanggal_mulai has not been reached", internal.ErrCodeStartDateNotReached)
)

func invalidTransition(action Action, from Status) *internal.AppError {
	return internal.NewInvalidTransitionError("cannot "+string(action)+" a magang in status "+string(from), internal.ErrCodeInvalidTransition).
		WithDetails(map[string]string{"action": string(action), "status": string(from)})
}

func wrongActor(action Action) *internal.AppError {
	return internal.NewInvalidTransitionError("actor may not "+string(action)+" a magang", internal.ErrCodeInvalidTransition).
		WithDetails(map[string]string{"action": string(action)})
}
