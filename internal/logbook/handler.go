package logbook

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, actor auth.Actor, magangID int64, dto SubmitDTO) (*Entry, error)
	Verify(ctx context.Context, actor auth.Actor, entryID int64, dto VerifyDTO) (*Entry, error)
	List(ctx context.Context, actor auth.Actor, magangID int64) ([]*Entry, error)
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

// Submit handles POST /api/v1/magang/{id}/logbook
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
		return
	}
	magangID, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto SubmitDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	entry, err := h.Service.Submit(r.Context(), actor, magangID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, entry)
}

// List handles GET /api/v1/magang/{id}/logbook
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
		return
	}
	magangID, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	entries, err := h.Service.List(r.Context(), actor, magangID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, entries)
}

// Verify handles POST /api/v1/logbook/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
		return
	}
	entryID, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto VerifyDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	entry, err := h.Service.Verify(r.Context(), actor, entryID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, entry)
}
