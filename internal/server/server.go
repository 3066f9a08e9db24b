package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/config"
	"github.com/jobmaroc/jobboard/internal/http/handlers"
	"github.com/jobmaroc/jobboard/internal/middleware"
	"github.com/jobmaroc/jobboard/internal/routes"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Deps are the collaborators the server needs besides configuration.
// Google may be nil, which disables Google sign-in.
type Deps struct {
	Store   storage.Store
	Revoker session.Revoker
	Google  auth.IdentityVerifier
	Logger  *zap.SugaredLogger
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// NewHandler builds the full middleware chain over the API and page routes.
func NewHandler(cfg config.Config, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	revoker := deps.Revoker
	if revoker == nil {
		revoker = session.NewMemoryRevoker()
	}
	guard := session.NewGuard(cfg.LoginPath, cfg.UnauthorizedPath)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), deps.Store).Register(mux)
	handlers.NewAuthHandler(deps.Store, tokens, revoker, deps.Google, guard, logger, cfg.CookieSecure).Register(mux)
	handlers.NewOffersHandler(deps.Store, guard, logger).Register(mux)
	handlers.NewApplicationsHandler(deps.Store, guard, logger).Register(mux)
	handlers.NewUsersHandler(deps.Store, guard, logger).Register(mux)
	handlers.NewTalentHandler(deps.Store, cfg.UploadDir, cfg.MaxUploadBytes, guard, logger).Register(mux)
	handlers.NewManagerHandler(deps.Store, guard, logger).Register(mux)
	handlers.NewNotificationsHandler(deps.Store, guard, logger).Register(mux)
	handlers.NewStatisticsHandler(deps.Store, guard, logger).Register(mux)
	routes.NewHandler(guard, cfg.StaticDir, logger).Register(mux)

	return middleware.Chain(mux,
		middleware.RequestLogger(logger),
		middleware.Recover(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Authenticate(tokens, revoker, deps.Store, logger),
	)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
