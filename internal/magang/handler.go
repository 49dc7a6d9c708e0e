package magang

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/core/common/validation"
	"github.com/frahmantamala/simmas/internal/transport"
)

type EngineAPI interface {
	Apply(ctx context.Context, actor auth.Actor, dto CreateMagangDTO) (*Magang, error)
	AttemptTransition(ctx context.Context, magangID int64, action Action, actor auth.Actor, in TransitionInput) (*Magang, error)
	List(ctx context.Context, actor auth.Actor, filter ListFilter) ([]*Magang, error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*Magang, error)
}

type Handler struct {
	*transport.BaseHandler
	Engine EngineAPI
}

func NewHandler(engine EngineAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Engine:      engine,
	}
}

type ListResponse struct {
	Items  []*Magang `json:"items"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
	}
	return actor, ok
}

// Create handles POST /api/v1/magang
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateMagangDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	m, err := h.Engine.Apply(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, m)
}

// List handles GET /api/v1/magang?status=&dudi_id=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	limit, offset := h.ParsePagination(r)
	filter := ListFilter{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("status"); raw != "" {
		if !Status(raw).Valid() {
			h.WriteError(w, internal.NewValidationFieldError("status", "status is not a magang status", internal.ErrCodeValidationFailed))
			return
		}
		filter.Status = Status(raw)
	}
	if raw := r.URL.Query().Get("dudi_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.WriteError(w, internal.ErrInvalidID.WithDetails(map[string]string{"dudi_id": raw}))
			return
		}
		filter.DudiID = id
	}

	items, err := h.Engine.List(r.Context(), actor, filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, ListResponse{Items: items, Limit: limit, Offset: offset})
}

// Get handles GET /api/v1/magang/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	m, err := h.Engine.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, m)
}

// Transition handles POST /api/v1/magang/{id}/transitions
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto TransitionDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	if appErr := validation.Struct(dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	m, err := h.Engine.AttemptTransition(r.Context(), id, Action(dto.Action), actor, TransitionInput{
		NilaiAkhir: dto.NilaiAkhir,
		Catatan:    dto.Catatan,
	})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, m)
}
