package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/pkg/logger"
	"github.com/go-chi/chi"
)

const maxBodyBytes = 1 << 20

// Envelope is the uniform body of every protected endpoint.
type Envelope struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data,omitempty"`
	Error   *internal.AppError `json:"error,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes appErr inside the envelope with its status code.
func (h *BaseHandler) WriteError(w http.ResponseWriter, appErr *internal.AppError) {
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	h.WriteJSON(w, status, Envelope{Success: false, Error: appErr})
}

// HandleServiceError maps domain errors to their status; anything else is
// logged with its cause and answered with a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logger.From(r.Context())
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		lg.Warn("request rejected",
			"path", r.URL.Path,
			"type", appErr.Type,
			"code", appErr.Code,
			"error", appErr.GetDetailedMessage())
		h.WriteError(w, appErr)
		return
	}

	lg.Error("internal error",
		"path", r.URL.Path,
		"user_id", internal.UserIDFromContext(r.Context()),
		"error", err)
	h.WriteError(w, internal.NewInternalError("internal server error", nil))
}

// DecodeJSON reads a bounded JSON body into dst.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) *internal.AppError {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.ErrInvalidBody.WithDetails(map[string]string{"body": "request body is empty"})
		}
		return internal.ErrInvalidBody.WithDetails(map[string]string{"body": err.Error()})
	}
	return nil
}

// ParseIDParam reads a positive integer path parameter.
func (h *BaseHandler) ParseIDParam(r *http.Request, name string) (int64, *internal.AppError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrInvalidID.WithDetails(map[string]string{name: raw})
	}
	return id, nil
}

// ParsePagination reads limit/offset with a default of 20 and a cap of 100.
func (h *BaseHandler) ParsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}
