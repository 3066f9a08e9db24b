package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/logging"
	"github.com/jobmaroc/jobboard/internal/middleware"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage/postgres"
)

// TestAuthIntegration signs a talent up, approves it and signs in against a live database.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	secret := mustGetEnv(t, "JWT_SECRET")
	issuer := mustGetEnv(t, "JWT_ISSUER")
	ttl := mustGetTTL(t)
	tokens := auth.NewTokenManager(secret, issuer, ttl)
	logger := logging.Test(t)

	mux := http.NewServeMux()
	NewAuthHandler(store, tokens, session.NewMemoryRevoker(), nil, session.NewGuard("", ""), logger, false).Register(mux)

	ts := httptest.NewServer(middleware.Authenticate(tokens, nil, store, logger)(mux))
	defer ts.Close()

	email := fmt.Sprintf("apitest_%d@example.com", time.Now().UnixNano())
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	status, _ := postJSON(t, ts.URL+"/api/talent/signup", dto.SignupRequest{
		Email:     email,
		Password:  password,
		FirstName: "Api",
		LastName:  "Test",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d", status)
	}
	user, err := store.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find created user: %v", err)
	}
	defer func() { _ = store.DeleteUser(ctx, user.ID) }()

	status, _ = postJSON(t, ts.URL+"/api/auth/signin", dto.LoginRequest{Username: email, Password: password})
	if status != http.StatusLocked {
		t.Fatalf("signin before approval status = %d, want %d", status, http.StatusLocked)
	}

	if _, err := store.UpdateStatus(ctx, user.ID, models.StatusAccepted); err != nil {
		t.Fatalf("approve user: %v", err)
	}

	status, body := postJSON(t, ts.URL+"/api/auth/signin", dto.LoginRequest{Username: strings.ToUpper(email), Password: password})
	if status != http.StatusOK {
		t.Fatalf("signin status = %d", status)
	}
	var env struct {
		Data dto.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode signin response: %v", err)
	}
	if strings.TrimSpace(env.Data.JWTToken) == "" {
		t.Fatal("signin response missing token")
	}
	if env.Data.UserRole != string(session.RoleTalent) {
		t.Fatalf("signin role = %q", env.Data.UserRole)
	}

	t.Logf("created talent %s (id=%d) and signed in after approval", email, user.ID)
}

func postJSON(t *testing.T, url string, payload any) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func mustGetTTL(t *testing.T) time.Duration {
	t.Helper()
	minutesStr := mustGetEnv(t, "JWT_TTL_MINUTES")
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		t.Fatalf("invalid JWT_TTL_MINUTES value: %q", minutesStr)
	}
	return time.Duration(minutes) * time.Minute
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
