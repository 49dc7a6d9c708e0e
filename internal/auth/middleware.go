package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/transport"
	"github.com/frahmantamala/simmas/pkg/logger"
)

type Middleware struct {
	*transport.BaseHandler
	resolver *SessionResolver
}

func NewMiddleware(resolver *SessionResolver, lg *slog.Logger) *Middleware {
	return &Middleware{
		BaseHandler: transport.NewBaseHandler(lg),
		resolver:    resolver,
	}
}

// Authenticate attaches the resolved session, if any, to the request
// context. It never rejects; RequireRoles decides.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := m.resolver.Resolve(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := ContextWithSession(r.Context(), session)
		ctx = internal.ContextWithUserID(ctx, session.UserID)
		ctx = logger.With(ctx, "user_id", session.UserID, "role", session.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles maps the guard verdict to 401 or 403. With no roles, any
// authenticated session passes.
func (m *Middleware) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := SessionFromContext(r.Context())
			decision := Require(session, roles...)

			switch decision.Denial {
			case DeniedUnauthenticated:
				m.WriteError(w, internal.ErrAuthenticationRequired)
				return
			case DeniedForbidden:
				logger.From(r.Context()).Warn("access denied: role not allowed",
					"path", r.URL.Path,
					"allowed_roles", roles)
				m.WriteError(w, internal.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
