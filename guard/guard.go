// Package guard decides, per navigation, whether a view may render for the
// current session.
package guard

import (
	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/users"
)

// Decision is the terminal state of one navigation attempt.
type Decision int

const (
	Permitted Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Permitted:
		return "permitted"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "unknown"
	}
}

// Decide evaluates, in order: no session → RedirectLogin; a non-empty
// allowed set that lacks the user's role → RedirectUnauthorized; otherwise
// Permitted. It is re-run on every navigation and never panics.
func Decide(session sessions.Session, allowedRoles []users.RoleType) Decision {
	if !session.IsAuthenticated() || session.User == nil {
		return RedirectLogin
	}
	if len(allowedRoles) == 0 {
		return Permitted
	}
	role := session.Role()
	for _, allowed := range allowedRoles {
		if allowed == role {
			return Permitted
		}
	}
	return RedirectUnauthorized
}

// Outcome is a decision together with the path to render.
type Outcome struct {
	Decision Decision
	Path     string // Requested path when permitted, otherwise the redirect target
}
