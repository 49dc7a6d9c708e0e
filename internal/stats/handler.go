package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/simmas/internal/transport"
)

type ServiceAPI interface {
	Summary(ctx context.Context) (*Stats, error)
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

// GetStats handles GET /api/v1/admin/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, st)
}
