package session

import "github.com/wolfeidau/surplus/internal/models"

// Action is the outcome of a route guard.
type Action int

const (
	// ActionWait defers rendering until the session has initialized.
	ActionWait Action = iota
	ActionAllow
	ActionRedirect
)

// Decision is returned by a Guard.
type Decision struct {
	Action Action
	To     string
}

// Guard decides whether a page may be shown for a session snapshot.
type Guard func(Snapshot) Decision

// Private allows authenticated sessions and redirects everyone else,
// to /signin by default.
func Private(redirectTo string) Guard {
	if redirectTo == "" {
		redirectTo = SignInPath
	}
	return func(s Snapshot) Decision {
		if s.Loading() {
			return Decision{Action: ActionWait}
		}
		if !s.Authenticated {
			return Decision{Action: ActionRedirect, To: redirectTo}
		}
		return Decision{Action: ActionAllow}
	}
}

// Guest allows anonymous sessions and redirects signed in users,
// to / by default.
func Guest(redirectTo string) Guard {
	if redirectTo == "" {
		redirectTo = RootPath
	}
	return func(s Snapshot) Decision {
		if s.Loading() {
			return Decision{Action: ActionWait}
		}
		if s.Authenticated {
			return Decision{Action: ActionRedirect, To: redirectTo}
		}
		return Decision{Action: ActionAllow}
	}
}

// RequireRole allows authenticated users with role. Anonymous users go to
// /signin, users with another role go to redirectTo.
func RequireRole(role models.Role, redirectTo string) Guard {
	private := Private(SignInPath)
	return func(s Snapshot) Decision {
		if d := private(s); d.Action != ActionAllow {
			return d
		}
		if s.User == nil || s.User.Role != role {
			return Decision{Action: ActionRedirect, To: redirectTo}
		}
		return Decision{Action: ActionAllow}
	}
}

// Evaluate runs g against the current session.
func (m *Manager) Evaluate(g Guard) Decision {
	return g(m.Snapshot())
}
