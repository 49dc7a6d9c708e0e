package magang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/core/events"
	"github.com/frahmantamala/simmas/internal/scheduler"
)

// ErrNoRows is returned by repositories when a lookup matches nothing.
var ErrNoRows = errors.New("no rows")

// Repository is the persistence the engine needs. Lock* methods take row
// locks and are only meaningful inside WithinTx.
type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
	LockDudi(ctx context.Context, dudiID int64) (*DudiSlot, error)
	LockSiswa(ctx context.Context, siswaID int64) error
	LockMagang(ctx context.Context, id int64) (*Magang, error)
	CountByDudi(ctx context.Context, dudiID int64, statuses []Status, excludeID int64) (int64, error)
	CountBySiswa(ctx context.Context, siswaID int64, statuses []Status) (int64, error)
	Create(ctx context.Context, m *Magang) error
	SaveTransition(ctx context.Context, m *Magang) error
	GetByID(ctx context.Context, id int64) (*Magang, error)
	List(ctx context.Context, filter ListFilter) ([]*Magang, error)
	FindDueForStart(ctx context.Context, today time.Time, limit int) ([]int64, error)
}

// Profiles maps accounts to their siswa or guru rows.
type Profiles interface {
	SiswaIDForUser(ctx context.Context, userID int64) (int64, error)
	GuruIDForUser(ctx context.Context, userID int64) (int64, error)
	GuruExists(ctx context.Context, guruID int64) (bool, error)
}

// Fanout runs jobs concurrently and reports one error slot per job.
type Fanout interface {
	RunAll(ctx context.Context, jobs []scheduler.Job) []error
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithPolicy(p EligibilityPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine owns every status change of a Magang. The transition table lives in
// magang.go; nothing else writes magang.status.
type Engine struct {
	repo      Repository
	profiles  Profiles
	publisher events.Publisher
	metrics   *Metrics
	policy    EligibilityPolicy
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(repo Repository, profiles Profiles, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		repo:      repo,
		profiles:  profiles,
		publisher: publisher,
		policy:    PolicySingleActive,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) today() time.Time {
	return DateOnly(e.now())
}

// Apply creates a pending Magang for the calling siswa. Dudi and siswa rows
// are locked in that order so concurrent applications serialize on both the
// quota and the one-internship rule.
func (e *Engine) Apply(ctx context.Context, actor auth.Actor, dto CreateMagangDTO) (m *Magang, err error) {
	defer func() { e.metrics.observe("create", err) }()

	if actor.System || actor.Role != auth.RoleSiswa {
		return nil, wrongActor("create")
	}

	mulai, selesai, appErr := dto.Period()
	if appErr != nil {
		return nil, appErr
	}

	siswaID, err := e.profiles.SiswaIDForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	ok, err := e.profiles.GuruExists(ctx, dto.GuruID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGuruNotFound
	}

	var occupancy int64
	err = e.repo.WithinTx(ctx, func(tx Repository) error {
		dudi, err := tx.LockDudi(ctx, dto.DudiID)
		if err != nil {
			return mapNoRows(err, ErrDudiNotFound)
		}
		if dudi.Status != DudiStatusAktif {
			return ErrDudiNotActive
		}

		if err := tx.LockSiswa(ctx, siswaID); err != nil {
			return mapNoRows(err, ErrProfileMissing)
		}

		existing, err := tx.CountBySiswa(ctx, siswaID, e.policy.blockingStatuses())
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrActiveInternship
		}

		occupancy, err = tx.CountByDudi(ctx, dudi.ID, ActiveTrackStatuses, 0)
		if err != nil {
			return err
		}
		if occupancy >= int64(dudi.Kuota) {
			return ErrQuotaFull
		}

		m = &Magang{
			SiswaID:        siswaID,
			DudiID:         dudi.ID,
			GuruID:         dto.GuruID,
			TanggalMulai:   mulai,
			TanggalSelesai: selesai,
			Status:         StatusPending,
		}
		return tx.Create(ctx, m)
	})
	if err != nil {
		return nil, e.fail(ctx, "create", err, "siswa_id", siswaID, "dudi_id", dto.DudiID)
	}

	e.metrics.setOccupancy(strconv.FormatInt(m.DudiID, 10), occupancy+1)
	e.logger.InfoContext(ctx, "magang submitted",
		"magang_id", m.ID,
		"siswa_id", siswaID,
		"dudi_id", m.DudiID,
		"guru_id", m.GuruID)
	e.publish(ctx, events.NewMagangSubmittedEvent(m.ID, m.SiswaID, m.DudiID, m.GuruID))
	return m, nil
}

// AttemptTransition applies action to the Magang as actor. It either commits
// the single status change or returns an error and leaves the row untouched.
func (e *Engine) AttemptTransition(ctx context.Context, magangID int64, action Action, actor auth.Actor, in TransitionInput) (m *Magang, err error) {
	defer func() { e.metrics.observe(action, err) }()

	t, ok := transitions[action]
	if !ok {
		return nil, internal.NewValidationFieldError("action", "unknown action "+string(action), internal.ErrCodeInvalidAction)
	}
	if !t.permits(actor) {
		return nil, wrongActor(action)
	}
	if appErr := in.validateFor(action); appErr != nil {
		return nil, appErr
	}

	var guruID int64
	if !actor.System {
		if guruID, err = e.profiles.GuruIDForUser(ctx, actor.UserID); err != nil {
			return nil, err
		}
	}

	var from Status
	err = e.repo.WithinTx(ctx, func(tx Repository) error {
		current, err := tx.LockMagang(ctx, magangID)
		if err != nil {
			return mapNoRows(err, ErrMagangNotFound)
		}
		if !actor.System && current.GuruID != guruID {
			return ErrNotAssigned
		}
		if current.Status != t.from {
			return invalidTransition(action, current.Status)
		}

		switch action {
		case ActionStart:
			if e.today().Before(DateOnly(current.TanggalMulai)) {
				return ErrStartNotReached
			}
		case ActionApprove:
			dudi, err := tx.LockDudi(ctx, current.DudiID)
			if err != nil {
				return mapNoRows(err, ErrDudiNotFound)
			}
			confirmed, err := tx.CountByDudi(ctx, dudi.ID, ConfirmedStatuses, current.ID)
			if err != nil {
				return err
			}
			if confirmed >= int64(dudi.Kuota) {
				return ErrQuotaFull
			}
		case ActionComplete:
			current.NilaiAkhir = in.NilaiAkhir
		}

		if action == ActionApprove || action == ActionReject {
			decided := e.now().UTC()
			current.DecidedAt = &decided
		}
		if in.Catatan != "" {
			current.Catatan = in.Catatan
		}

		from = current.Status
		current.Status = t.to
		if err := tx.SaveTransition(ctx, current); err != nil {
			return err
		}
		m = current
		return nil
	})
	if err != nil {
		return nil, e.fail(ctx, string(action), err, "magang_id", magangID, "actor_user_id", actor.UserID, "system", actor.System)
	}

	e.logger.InfoContext(ctx, "magang transitioned",
		"magang_id", m.ID,
		"action", action,
		"from", from,
		"to", m.Status,
		"actor_user_id", actor.UserID,
		"system", actor.System)
	e.publish(ctx, events.NewMagangTransitionedEvent(m.ID, string(action), string(from), string(m.Status), actor.UserID, actor.System))
	return m, nil
}

// List returns the Magang rows visible to actor: all for admin, assigned for
// guru, own for siswa.
func (e *Engine) List(ctx context.Context, actor auth.Actor, filter ListFilter) ([]*Magang, error) {
	filter.SiswaID, filter.GuruID = 0, 0
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleGuru:
		id, err := e.profiles.GuruIDForUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.GuruID = id
	case auth.RoleSiswa:
		id, err := e.profiles.SiswaIDForUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.SiswaID = id
	default:
		return nil, internal.ErrInsufficientRole
	}

	list, err := e.repo.List(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list magang", err)
	}
	return list, nil
}

// Get returns one Magang if actor may see it. Rows outside the caller's view
// are reported as not found.
func (e *Engine) Get(ctx context.Context, actor auth.Actor, id int64) (*Magang, error) {
	m, err := e.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrMagangNotFound
		}
		return nil, internal.NewInternalError("failed to load magang", err)
	}

	visible, err := e.visible(ctx, actor, m)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrMagangNotFound
	}
	return m, nil
}

func (e *Engine) visible(ctx context.Context, actor auth.Actor, m *Magang) (bool, error) {
	switch actor.Role {
	case auth.RoleAdmin:
		return true, nil
	case auth.RoleGuru:
		id, err := e.profiles.GuruIDForUser(ctx, actor.UserID)
		if err != nil {
			return false, err
		}
		return m.GuruID == id, nil
	case auth.RoleSiswa:
		id, err := e.profiles.SiswaIDForUser(ctx, actor.UserID)
		if err != nil {
			return false, err
		}
		return m.SiswaID == id, nil
	}
	return false, nil
}

// StartReport summarizes one scheduled run.
type StartReport struct {
	Due     int
	Started int
	Failed  int
}

// StartDue moves every diterima Magang whose tanggal_mulai has been reached
// to berlangsung as the system actor, one job per row on fan.
func (e *Engine) StartDue(ctx context.Context, fan Fanout, batch int) (StartReport, error) {
	if batch <= 0 {
		batch = 100
	}
	ids, err := e.repo.FindDueForStart(ctx, e.today(), batch)
	if err != nil {
		return StartReport{}, internal.NewInternalError("failed to find due magang", err)
	}

	report := StartReport{Due: len(ids)}
	if len(ids) == 0 {
		return report, nil
	}

	jobs := make([]scheduler.Job, len(ids))
	for i, id := range ids {
		id := id
		jobs[i] = scheduler.Job{
			Name: "magang.start." + strconv.FormatInt(id, 10),
			Run: func(ctx context.Context) error {
				_, err := e.AttemptTransition(ctx, id, ActionStart, auth.SystemActor(), TransitionInput{})
				return err
			},
		}
	}

	for _, err := range fan.RunAll(ctx, jobs) {
		if err != nil {
			report.Failed++
			continue
		}
		report.Started++
	}

	e.logger.InfoContext(ctx, "scheduled start run finished",
		"due", report.Due,
		"started", report.Started,
		"failed", report.Failed)
	return report, nil
}

// fail logs and normalizes an error from a write path. AppErrors pass
// through; anything else becomes an internal error.
func (e *Engine) fail(ctx context.Context, op string, err error, attrs ...any) error {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		e.logger.InfoContext(ctx, "magang "+op+" rejected", append(attrs, "code", appErr.Code)...)
		return appErr
	}
	e.logger.ErrorContext(ctx, "magang "+op+" failed", append(attrs, "error", err)...)
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	return internal.NewInternalError("failed to "+op+" magang", err)
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func mapNoRows(err error, notFound *internal.AppError) error {
	if errors.Is(err, ErrNoRows) {
		return notFound
	}
	return err
}
