package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/logging"
	"github.com/jobmaroc/jobboard/internal/middleware"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage/memory"
)

const testPassword = "correct-horse"

// fixture wires every handler against an in-memory store.
type fixture struct {
	t         *testing.T
	store     *memory.Store
	tokens    *auth.TokenManager
	revoker   *session.MemoryRevoker
	uploadDir string
	handler   http.Handler
}

func newFixture(t *testing.T, google auth.IdentityVerifier) *fixture {
	t.Helper()
	f := &fixture{
		t:         t,
		store:     memory.New(),
		tokens:    auth.NewTokenManager("test-secret", "jobboard", time.Hour),
		revoker:   session.NewMemoryRevoker(),
		uploadDir: t.TempDir(),
	}
	logger := logging.Test(t)
	guard := session.NewGuard("", "")

	mux := http.NewServeMux()
	NewHealthHandler(time.Now(), f.store).Register(mux)
	NewAuthHandler(f.store, f.tokens, f.revoker, google, guard, logger, false).Register(mux)
	NewOffersHandler(f.store, guard, logger).Register(mux)
	NewApplicationsHandler(f.store, guard, logger).Register(mux)
	NewUsersHandler(f.store, guard, logger).Register(mux)
	NewTalentHandler(f.store, f.uploadDir, 1<<20, guard, logger).Register(mux)
	NewManagerHandler(f.store, guard, logger).Register(mux)
	NewNotificationsHandler(f.store, guard, logger).Register(mux)
	NewStatisticsHandler(f.store, guard, logger).Register(mux)

	f.handler = middleware.Authenticate(f.tokens, f.revoker, f.store, logger)(mux)
	return f
}

// account creates a user with testPassword and returns it with a signed token.
func (f *fixture) account(email string, role session.Role, status models.AcceptanceStatus, company *models.Company) (models.User, string) {
	f.t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(f.t, err)
	user, err := f.store.CreateUser(context.Background(), models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
		Status:       status,
		PasswordHash: hash,
	}, company)
	require.NoError(f.t, err)
	token, err := f.tokens.Generate(user)
	require.NoError(f.t, err)
	return user, token
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// data decodes the envelope's data field into T.
func data[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

type fakeGoogle struct {
	identity auth.GoogleIdentity
	err      error
}

func (g fakeGoogle) Verify(context.Context, string) (auth.GoogleIdentity, error) {
	return g.identity, g.err
}
