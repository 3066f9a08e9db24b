package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmaroc/jobboard/internal/config"
	"github.com/jobmaroc/jobboard/internal/logging"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
	"github.com/jobmaroc/jobboard/internal/storage/memory"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Port:             "0",
		JWTSecret:        "server-secret",
		JWTIssuer:        "jobboard",
		JWTTTL:           time.Hour,
		CORSOrigins:      []string{"https://app.example"},
		UploadDir:        t.TempDir(),
		LoginPath:        "/login",
		UnauthorizedPath: "/",
		MaxUploadBytes:   1 << 20,
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	logger := logging.Test(t)

	require.NoError(t, EnsureAdmin(ctx, store, "", "", logger))
	users, err := store.ListUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	assert.Empty(t, users)

	assert.Error(t, EnsureAdmin(ctx, store, "root@example.com", "short", logger))

	require.NoError(t, EnsureAdmin(ctx, store, "root@example.com", "long-enough-secret", logger))
	admin, err := store.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, admin.Role)
	assert.Equal(t, models.StatusAccepted, admin.Status)

	require.NoError(t, EnsureAdmin(ctx, store, "ROOT@example.com", "another-secret", logger))
	users, err = store.ListUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestHandler_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	logger := logging.Test(t)
	require.NoError(t, EnsureAdmin(ctx, store, "root@example.com", "long-enough-secret", logger))

	ts := httptest.NewServer(NewHandler(testConfig(t), Deps{Store: store, Logger: logger}))
	defer ts.Close()

	post := func(path, token string, body any) *http.Response {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("/api/auth/signin", "", dto.LoginRequest{Username: "root@example.com", Password: "long-enough-secret"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	var env struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	token := env.Data.JWTToken
	require.NotEmpty(t, token)

	resp = post("/api/offers", token, dto.OfferRequest{Title: "Platform engineer"})
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = post("/api/auth/logout", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post("/api/offers", token, dto.OfferRequest{Title: "After logout"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	page, err := client.Do(req)
	require.NoError(t, err)
	page.Body.Close()
	assert.Equal(t, http.StatusSeeOther, page.StatusCode)
	assert.Equal(t, "/login", page.Header.Get("Location"))

	req, err = http.NewRequest(http.MethodOptions, ts.URL+"/api/offers", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	preflight, err := client.Do(req)
	require.NoError(t, err)
	preflight.Body.Close()
	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)
	assert.Equal(t, "https://app.example", preflight.Header.Get("Access-Control-Allow-Origin"))
}
