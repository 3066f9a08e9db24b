package session

// Decision is the outcome of a navigation check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "unknown"
	}
}

const (
	DefaultLoginPath        = "/login"
	DefaultUnauthorizedPath = "/"
)

// Guard decides whether a navigation renders, goes to login, or goes to the
// unauthorized fallback. It performs no I/O.
type Guard struct {
	LoginPath        string
	UnauthorizedPath string
}

// NewGuard returns a guard with the given paths, falling back to the defaults when empty.
func NewGuard(loginPath, unauthorizedPath string) Guard {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if unauthorizedPath == "" {
		unauthorizedPath = DefaultUnauthorizedPath
	}
	return Guard{LoginPath: loginPath, UnauthorizedPath: unauthorizedPath}
}

// Decide checks sess against allowed. An empty allowed list means "authenticated only".
func (g Guard) Decide(sess *Session, allowed []Role) Decision {
	if sess == nil || sess.Token == "" {
		return RedirectLogin
	}
	if len(allowed) == 0 {
		return Allow
	}
	if !sess.HasRole(allowed...) {
		return RedirectUnauthorized
	}
	return Allow
}

// Target returns the path a decision navigates to; empty for Allow.
func (g Guard) Target(d Decision) string {
	switch d {
	case RedirectLogin:
		if g.LoginPath == "" {
			return DefaultLoginPath
		}
		return g.LoginPath
	case RedirectUnauthorized:
		if g.UnauthorizedPath == "" {
			return DefaultUnauthorizedPath
		}
		return g.UnauthorizedPath
	default:
		return ""
	}
}
