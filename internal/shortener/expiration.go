package shortener

import "time"

// ResolveState is the outcome of an expiration check.
type ResolveState int

const (
	// StateResolvable means the link is active and not expired.
	StateResolvable ResolveState = iota
	// StateDisabled means the owner or an admin turned the link off.
	StateDisabled
	// StateExpiredDate means the expiration date has passed.
	StateExpiredDate
	// StateExpiredClicks means the click budget is used up.
	StateExpiredClicks
)

// Resolvable evaluates whether a link may still be served at the given
// instant. Disabled wins over expired so callers can report the two
// conditions distinctly.
func Resolvable(link *ShortLink, now time.Time) ResolveState {
	if !link.IsActive {
		return StateDisabled
	}

	switch link.ExpirationType {
	case ExpireOnDate:
		if link.ExpirationDate != nil && !now.Before(*link.ExpirationDate) {
			return StateExpiredDate
		}
	case ExpireOnClicks:
		if link.ClicksRemaining != nil && *link.ClicksRemaining <= 0 {
			return StateExpiredClicks
		}
	case ExpireNever:
	}

	return StateResolvable
}

// IsResolvable is a convenience wrapper over Resolvable.
func IsResolvable(link *ShortLink, now time.Time) bool {
	return Resolvable(link, now) == StateResolvable
}
