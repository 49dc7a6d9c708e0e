package auth

import (
	"context"
	"net/http"
	"time"
)

const SessionCookieName = "simmas_token"

type TokenVerifier interface {
	Verify(token string) (*Claims, bool)
}

// SessionResolver turns the session cookie of a request into a Session.
type SessionResolver struct {
	tokens TokenVerifier
}

func NewSessionResolver(tokens TokenVerifier) *SessionResolver {
	return &SessionResolver{tokens: tokens}
}

// Resolve never reports why a session is missing; absent, expired and
// tampered cookies look the same to the caller.
func (r *SessionResolver) Resolve(req *http.Request) (*Session, bool) {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, ok := r.tokens.Verify(cookie.Value)
	if !ok {
		return nil, false
	}

	role, ok := ParseRole(string(claims.Role))
	if !ok {
		return nil, false
	}

	session := &Session{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        role,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, true
}

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	Secure bool
	TTL    time.Duration
}

func (c CookieSettings) Set(w http.ResponseWriter, token string) {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie immediately (Max-Age=0 on the wire).
func (c CookieSettings) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey string

const contextSessionKey ctxKey = "session"

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextSessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextSessionKey).(*Session)
	return s, ok && s != nil
}

// ActorFromContext is the domain actor of the request's session.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return Actor{}, false
	}
	return s.Actor(), true
}
