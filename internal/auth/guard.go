package auth

type DenialKind int

const (
	DeniedUnauthenticated DenialKind = iota + 1
	DeniedForbidden
)

func (k DenialKind) String() string {
	switch k {
	case DeniedUnauthenticated:
		return "unauthenticated"
	case DeniedForbidden:
		return "forbidden"
	}
	return "none"
}

// Decision is the verdict of Require: either Session is set, or Denial is.
type Decision struct {
	Session *Session
	Denial  DenialKind
}

func (d Decision) Authorized() bool {
	return d.Denial == 0 && d.Session != nil
}

// Require grants access when session exists and its role is in allowed.
// An empty allowed list admits any authenticated role.
func Require(session *Session, allowed ...Role) Decision {
	if session == nil || !session.Role.Valid() {
		return Decision{Denial: DeniedUnauthenticated}
	}
	if len(allowed) == 0 {
		return Decision{Session: session}
	}
	for _, r := range allowed {
		if session.Role == r {
			return Decision{Session: session}
		}
	}
	return Decision{Denial: DeniedForbidden}
}
