package dudi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Actor, filter ListFilter) ([]*Dudi, error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*Dudi, error)
	Create(ctx context.Context, dto CreateDudiDTO) (*Dudi, error)
	Update(ctx context.Context, id int64, dto UpdateDudiDTO) (*Dudi, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// List handles GET /api/v1/dudi
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", StatusAktif, StatusNonaktif, StatusPending:
	default:
		h.WriteError(w, internal.NewValidationFieldError("status", "status must be one of [aktif nonaktif pending]", internal.ErrCodeValidationFailed))
		return
	}

	list, err := h.Service.List(r.Context(), actor, ListFilter{Status: status})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, list)
}

// Get handles GET /api/v1/dudi/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	d, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, d)
}

// Create handles POST /api/v1/dudi
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDudiDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	d, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, d)
}

// Update handles PATCH /api/v1/dudi/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto UpdateDudiDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	d, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, d)
}
