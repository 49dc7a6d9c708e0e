package logbook

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/core/common/validation"
	"github.com/frahmantamala/simmas/internal/core/events"
	"github.com/frahmantamala/simmas/internal/magang"
)

var ErrNoRows = errors.New("no rows")

type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
	LockMagang(ctx context.Context, magangID int64) (*MagangRef, error)
	GetMagang(ctx context.Context, magangID int64) (*MagangRef, error)
	LockEntry(ctx context.Context, id int64) (*Entry, error)
	Create(ctx context.Context, e *Entry) error
	SaveVerification(ctx context.Context, e *Entry) error
	ListByMagang(ctx context.Context, magangID int64) ([]*Entry, error)
}

type Profiles interface {
	SiswaIDForUser(ctx context.Context, userID int64) (int64, error)
	GuruIDForUser(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo      Repository
	profiles  Profiles
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, profiles Profiles, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit files a pending entry against the caller's running internship.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, magangID int64, dto SubmitDTO) (*Entry, error) {
	if actor.System || actor.Role != auth.RoleSiswa {
		return nil, internal.ErrInsufficientRole
	}
	dto.Kegiatan = strings.TrimSpace(dto.Kegiatan)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	tanggal, _ := time.Parse("2006-01-02", dto.Tanggal)

	siswaID, err := s.profiles.SiswaIDForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var entry *Entry
	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		m, err := tx.LockMagang(ctx, magangID)
		if err != nil {
			return notFound(err, ErrMagangNotFound)
		}
		if m.SiswaID != siswaID {
			return ErrNotOwner
		}
		if m.Status != magangBerlangsung {
			return ErrMagangNotActive
		}

		v := validation.NewValidator()
		v.Field("tanggal", tanggal).
			NotFuture(magang.DateOnly(s.now())).
			NotBefore(m.TanggalMulai, "tanggal_mulai")
		if appErr := v.Validate(); appErr != nil {
			return appErr
		}

		entry = &Entry{
			MagangID:         m.ID,
			Tanggal:          tanggal,
			Kegiatan:         dto.Kegiatan,
			Kendala:          dto.Kendala,
			StatusVerifikasi: StatusPending,
		}
		return tx.Create(ctx, entry)
	})
	if err != nil {
		return nil, s.fail(ctx, "submit", err, "magang_id", magangID)
	}

	s.logger.InfoContext(ctx, "logbook submitted", "logbook_id", entry.ID, "magang_id", magangID)
	s.publish(ctx, events.NewLogbookSubmittedEvent(entry.ID, magangID))
	return entry, nil
}

// Verify records the assigned guru's decision. A decided entry is final.
func (s *Service) Verify(ctx context.Context, actor auth.Actor, entryID int64, dto VerifyDTO) (*Entry, error) {
	if actor.System || actor.Role != auth.RoleGuru {
		return nil, internal.ErrInsufficientRole
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	guruID, err := s.profiles.GuruIDForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var entry *Entry
	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		e, err := tx.LockEntry(ctx, entryID)
		if err != nil {
			return notFound(err, ErrEntryNotFound)
		}
		m, err := tx.GetMagang(ctx, e.MagangID)
		if err != nil {
			return notFound(err, ErrMagangNotFound)
		}
		if m.GuruID != guruID {
			return ErrNotAssigned
		}
		if e.StatusVerifikasi != StatusPending {
			return ErrAlreadyVerified
		}

		verifiedAt := s.now().UTC()
		e.StatusVerifikasi = Status(dto.Decision)
		e.CatatanGuru = dto.Catatan
		e.VerifiedAt = &verifiedAt
		if err := tx.SaveVerification(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "verify", err, "logbook_id", entryID)
	}

	s.logger.InfoContext(ctx, "logbook verified",
		"logbook_id", entry.ID,
		"magang_id", entry.MagangID,
		"decision", entry.StatusVerifikasi)
	s.publish(ctx, events.NewLogbookVerifiedEvent(entry.ID, entry.MagangID, string(entry.StatusVerifikasi)))
	return entry, nil
}

// List returns the entries of one Magang if the caller may see it.
func (s *Service) List(ctx context.Context, actor auth.Actor, magangID int64) ([]*Entry, error) {
	m, err := s.repo.GetMagang(ctx, magangID)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrMagangNotFound
		}
		return nil, internal.NewInternalError("failed to load magang", err)
	}

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleGuru:
		id, err := s.profiles.GuruIDForUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if m.GuruID != id {
			return nil, ErrMagangNotFound
		}
	case auth.RoleSiswa:
		id, err := s.profiles.SiswaIDForUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if m.SiswaID != id {
			return nil, ErrMagangNotFound
		}
	default:
		return nil, internal.ErrInsufficientRole
	}

	entries, err := s.repo.ListByMagang(ctx, magangID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list logbook", err)
	}
	return entries, nil
}

func (s *Service) fail(ctx context.Context, op string, err error, attrs ...any) error {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.Type == internal.ErrorTypeInternal {
			s.logger.ErrorContext(ctx, "logbook "+op+" failed", append(attrs, "error", err)...)
		}
		return appErr
	}
	s.logger.ErrorContext(ctx, "logbook "+op+" failed", append(attrs, "error", err)...)
	return internal.NewInternalError("failed to "+op+" logbook entry", err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func notFound(err error, appErr *internal.AppError) error {
	if errors.Is(err, ErrNoRows) {
		return appErr
	}
	return err
}
