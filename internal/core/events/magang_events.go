package events

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	EventTypeMagangSubmitted    = "magang.submitted"
	EventTypeMagangTransitioned = "magang.transitioned"
	EventTypeLogbookSubmitted   = "logbook.submitted"
	EventTypeLogbookVerified    = "logbook.verified"
)

// AllEventTypes lists every event the domain publishes.
var AllEventTypes = []string{
	EventTypeMagangSubmitted,
	EventTypeMagangTransitioned,
	EventTypeLogbookSubmitted,
	EventTypeLogbookVerified,
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewEventID returns a lexicographically sortable event identifier.
func NewEventID(at time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), entropy).String()
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	now := time.Now()
	return BaseEvent{
		ID:        NewEventID(now),
		Type:      eventType,
		Timestamp: now,
		Data:      data,
	}
}

type MagangSubmittedEvent struct {
	BaseEvent
	MagangID int64 `json:"magang_id"`
	SiswaID  int64 `json:"siswa_id"`
	DudiID   int64 `json:"dudi_id"`
	GuruID   int64 `json:"guru_id"`
}

func NewMagangSubmittedEvent(magangID, siswaID, dudiID, guruID int64) *MagangSubmittedEvent {
	return &MagangSubmittedEvent{
		BaseEvent: newBase(EventTypeMagangSubmitted, map[string]interface{}{
			"magang_id": magangID,
			"siswa_id":  siswaID,
			"dudi_id":   dudiID,
			"guru_id":   guruID,
		}),
		MagangID: magangID,
		SiswaID:  siswaID,
		DudiID:   dudiID,
		GuruID:   guruID,
	}
}

type MagangTransitionedEvent struct {
	BaseEvent
	MagangID    int64  `json:"magang_id"`
	Action      string `json:"action"`
	From        string `json:"from"`
	To          string `json:"to"`
	ActorUserID int64  `json:"actor_user_id"`
	System      bool   `json:"system"`
}

func NewMagangTransitionedEvent(magangID int64, action, from, to string, actorUserID int64, system bool) *MagangTransitionedEvent {
	return &MagangTransitionedEvent{
		BaseEvent: newBase(EventTypeMagangTransitioned, map[string]interface{}{
			"magang_id":     magangID,
			"action":        action,
			"from":          from,
			"to":            to,
			"actor_user_id": actorUserID,
			"system":        system,
		}),
		MagangID:    magangID,
		Action:      action,
		From:        from,
		To:          to,
		ActorUserID: actorUserID,
		System:      system,
	}
}

type LogbookEvent struct {
	BaseEvent
	LogbookID int64  `json:"logbook_id"`
	MagangID  int64  `json:"magang_id"`
	Status    string `json:"status"`
}

func NewLogbookSubmittedEvent(logbookID, magangID int64) *LogbookEvent {
	return newLogbookEvent(EventTypeLogbookSubmitted, logbookID, magangID, "pending")
}

func NewLogbookVerifiedEvent(logbookID, magangID int64, status string) *LogbookEvent {
	return newLogbookEvent(EventTypeLogbookVerified, logbookID, magangID, status)
}

func newLogbookEvent(eventType string, logbookID, magangID int64, status string) *LogbookEvent {
	return &LogbookEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"logbook_id": logbookID,
			"magang_id":  magangID,
			"status":     status,
		}),
		LogbookID: logbookID,
		MagangID:  magangID,
		Status:    status,
	}
}
