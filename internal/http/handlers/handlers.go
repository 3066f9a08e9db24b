// Package handlers implements the REST API. Every handler exposes
// Register(mux) and guards its routes with middleware.RequireRoles.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/middleware"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// base carries what every handler needs to guard routes and report failures.
type base struct {
	guard  session.Guard
	logger *zap.SugaredLogger
}

func newBase(guard session.Guard, logger *zap.SugaredLogger) base {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return base{guard: guard, logger: logger}
}

// protect registers h behind the role guard. No roles means any signed-in user.
func (b base) protect(mux *http.ServeMux, pattern string, h http.HandlerFunc, roles ...session.Role) {
	mux.Handle(pattern, middleware.RequireRoles(b.guard, roles...)(h))
}

// storeError maps storage sentinels onto HTTP statuses.
func (b base) storeError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, what+" already exists")
	case errors.Is(err, storage.ErrConflict):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		b.logger.Errorw("store failure",
			"what", what,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// caller returns the verified claims and user id of the signed-in user.
// Routes registered through protect always have them.
func caller(r *http.Request) (auth.Claims, int64) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	id, _ := claims.UserID()
	return claims, id
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input yields nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("dates must be YYYY-MM-DD")
}
