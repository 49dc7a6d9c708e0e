package magang

import "github.com/frahmantamala/simmas/internal"

// EligibilityPolicy decides which existing internships stop a siswa from
// applying again.
type EligibilityPolicy string

const (
	// PolicySingleActive allows a new application once every earlier one has
	// ended, whether rejected or completed.
	PolicySingleActive EligibilityPolicy = internal.EligibilitySingleActive
	// PolicySingleLifetime also counts a completed internship.
	PolicySingleLifetime EligibilityPolicy = internal.EligibilitySingleLifetime
)

func ParsePolicy(raw string) EligibilityPolicy {
	if EligibilityPolicy(raw) == PolicySingleLifetime {
		return PolicySingleLifetime
	}
	return PolicySingleActive
}

func (p EligibilityPolicy) blockingStatuses() []Status {
	if p == PolicySingleLifetime {
		return append(append([]Status{}, ActiveTrackStatuses...), StatusSelesai)
	}
	return ActiveTrackStatuses
}
