package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/transport"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookies CookieSettings
}

func NewHandler(svc ServiceAPI, cookies CookieSettings, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Cookies:     cookies,
	}
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(w, r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Cookies.Set(w, result.Token)
	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    result.User,
	})
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.ErrAuthenticationRequired)
		return
	}
	h.WriteSuccess(w, http.StatusOK, session)
}
