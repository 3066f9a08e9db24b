package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// TokenCookie is the cookie browsers send the session token in.
const TokenCookie = "jwtToken"

// TokenParser verifies a raw token.
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

// AccountLookup loads the account a token was issued for.
type AccountLookup interface {
	FindByID(ctx context.Context, id int64) (models.User, error)
}

type claimsKey struct{}

type tokenKey struct{}

// Authenticate verifies the bearer token or session cookie and stores the
// claims in the request context. Requests without a usable token pass
// through anonymously; RequireRoles decides what they may reach.
//
// When accounts is set, the token's account must still exist and be
// accepted, and its stored role and email replace the claimed ones.
func Authenticate(tokens TokenParser, revoker session.Revoker, accounts AccountLookup, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := TokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.Debugw("rejecting token", "error", err, "request_id", RequestIDFrom(r.Context()))
				next.ServeHTTP(w, r)
				return
			}
			if revoker != nil {
				revoked, err := revoker.Revoked(r.Context(), claims.ID)
				if err != nil {
					logger.Errorw("revocation lookup failed", "error", err, "request_id", RequestIDFrom(r.Context()))
					respond.Error(w, http.StatusServiceUnavailable, "session check unavailable")
					return
				}
				if revoked {
					next.ServeHTTP(w, r)
					return
				}
			}
			if accounts != nil {
				userID, _ := claims.UserID()
				user, err := accounts.FindByID(r.Context(), userID)
				switch {
				case errors.Is(err, storage.ErrNotFound):
					logger.Infow("token for deleted account", "user_id", userID, "request_id", RequestIDFrom(r.Context()))
					next.ServeHTTP(w, r)
					return
				case err != nil:
					logger.Errorw("account lookup failed", "error", err, "request_id", RequestIDFrom(r.Context()))
					respond.Error(w, http.StatusServiceUnavailable, "session check unavailable")
					return
				case !user.CanSignIn():
					logger.Infow("token for non-accepted account", "user_id", userID, "status", user.Status,
						"request_id", RequestIDFrom(r.Context()))
					next.ServeHTTP(w, r)
					return
				}
				claims.Role = user.Role
				claims.Username = user.Email
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = context.WithValue(ctx, tokenKey{}, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest prefers the Authorization header over the cookie.
func TokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// ClaimsFrom returns the verified claims placed by Authenticate.
func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}

// SessionFrom returns the caller's session, or nil when anonymous.
func SessionFrom(ctx context.Context) *session.Session {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return nil
	}
	raw, _ := ctx.Value(tokenKey{}).(string)
	return claims.Session(raw)
}

// WithClaims stores claims in ctx. Handler tests use it to skip token issuance.
func WithClaims(ctx context.Context, claims auth.Claims, raw string) context.Context {
	ctx = context.WithValue(ctx, claimsKey{}, claims)
	return context.WithValue(ctx, tokenKey{}, raw)
}

// RequireRoles admits sessions holding one of roles; an empty list admits
// any signed-in user. API callers get 401 or 403 envelopes, browsers are
// redirected to the guard's login or fallback path.
func RequireRoles(guard session.Guard, roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Decide(SessionFrom(r.Context()), roles)
			if decision == session.Allow {
				next.ServeHTTP(w, r)
				return
			}
			if !IsBrowserRequest(r) {
				if decision == session.RedirectLogin {
					respond.Error(w, http.StatusUnauthorized, "authentication required")
				} else {
					respond.Error(w, http.StatusForbidden, "insufficient permissions")
				}
				return
			}
			http.Redirect(w, r, guard.Target(decision), http.StatusSeeOther)
		})
	}
}

// IsBrowserRequest treats everything outside /api/ that accepts HTML as a page load.
func IsBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}
