package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/logging"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", "jobboard", time.Hour)
}

func issue(t *testing.T, tokens *auth.TokenManager, role session.Role) string {
	t.Helper()
	raw, err := tokens.Generate(models.User{ID: 42, Email: "user@example.com", Role: role})
	require.NoError(t, err)
	return raw
}

func protected(t *testing.T, tokens *auth.TokenManager, revoker session.Revoker, roles ...session.Role) http.Handler {
	t.Helper()
	return protectedWith(t, tokens, revoker, nil, roles...)
}

func protectedWith(t *testing.T, tokens *auth.TokenManager, revoker session.Revoker, accounts AccountLookup, roles ...session.Role) http.Handler {
	t.Helper()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		require.NotNil(t, sess)
		w.WriteHeader(http.StatusOK)
	})
	return Chain(ok,
		Authenticate(tokens, revoker, accounts, logging.Test(t)),
		RequireRoles(session.NewGuard("", ""), roles...),
	)
}

func TestRequireRoles_API(t *testing.T) {
	tokens := newTokens()
	h := protected(t, tokens, nil, session.RoleAdmin)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + issue(t, tokens, session.RoleTalent), want: http.StatusForbidden},
		{name: "admin", header: "Bearer " + issue(t, tokens, session.RoleAdmin), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRoles_BrowserRedirects(t *testing.T) {
	tokens := newTokens()
	h := protected(t, tokens, nil, session.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: issue(t, tokens, session.RoleManager)})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireRoles_EmptyRolesAdmitsAnySession(t *testing.T) {
	tokens := newTokens()
	h := protected(t, tokens, nil)

	for _, role := range session.Roles {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, tokens, role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, role)
	}
}

func TestAuthenticate_RevokedTokenIsAnonymous(t *testing.T) {
	tokens := newTokens()
	revoker := session.NewMemoryRevoker()
	h := protected(t, tokens, revoker)

	raw := issue(t, tokens, session.RoleTalent)
	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenFromRequest_HeaderWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer header-token")
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})
	assert.Equal(t, "header-token", TokenFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", TokenFromRequest(req))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/offers", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/offers", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover_WritesEnvelope(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		RequestLogger(logging.Test(t)),
		Recover(logging.Test(t)),
	)
	req := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestRequestLogger_RequestID(t *testing.T) {
	h := RequestLogger(logging.Test(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, w.Header().Get(RequestIDHeader), RequestIDFrom(r.Context()))
	}))

	tests := []struct {
		name     string
		incoming string
		kept     bool
	}{
		{name: "absent", incoming: ""},
		{name: "client id", incoming: "trace-42-abc", kept: true},
		{name: "too long", incoming: strings.Repeat("a", 65)},
		{name: "log injection", incoming: "abc\ninjected=1"},
		{name: "spaces", incoming: "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			got := rec.Header().Get(RequestIDHeader)
			if tt.kept {
				assert.Equal(t, tt.incoming, got)
				return
			}
			assert.NotEqual(t, tt.incoming, got)
			assert.Len(t, got, 36)
		})
	}
}

type accountsFunc func(ctx context.Context, id int64) (models.User, error)

func (f accountsFunc) FindByID(ctx context.Context, id int64) (models.User, error) { return f(ctx, id) }

func TestAuthenticate_ChecksStoredAccount(t *testing.T) {
	tokens := newTokens()
	adminToken := issue(t, tokens, session.RoleAdmin)

	tests := []struct {
		name string
		user models.User
		err  error
		want int
	}{
		{name: "accepted admin", user: models.User{ID: 42, Role: session.RoleAdmin, Status: models.StatusAccepted}, want: http.StatusOK},
		{name: "demoted to talent", user: models.User{ID: 42, Role: session.RoleTalent, Status: models.StatusAccepted}, want: http.StatusForbidden},
		{name: "rejected", user: models.User{ID: 42, Role: session.RoleAdmin, Status: models.StatusRejected}, want: http.StatusUnauthorized},
		{name: "deleted", err: storage.ErrNotFound, want: http.StatusUnauthorized},
		{name: "store down", err: errors.New("connection refused"), want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := accountsFunc(func(_ context.Context, id int64) (models.User, error) {
				assert.Equal(t, int64(42), id)
				return tt.user, tt.err
			})
			h := protectedWith(t, tokens, nil, accounts, session.RoleAdmin)
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", "Bearer "+adminToken)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
