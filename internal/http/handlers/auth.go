package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/middleware"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// AuthStore is the persistence AuthHandler needs.
type AuthStore interface {
	storage.UserStore
	storage.NotificationStore
}

// AuthHandler owns sign-in, sign-out and signup endpoints.
type AuthHandler struct {
	base
	store        AuthStore
	tokens       *auth.TokenManager
	revoker      session.Revoker
	google       auth.IdentityVerifier
	notify       notifier
	secureCookie bool
}

// NewAuthHandler constructs the handler. google may be nil, which disables Google sign-in.
func NewAuthHandler(store AuthStore, tokens *auth.TokenManager, revoker session.Revoker, google auth.IdentityVerifier,
	guard session.Guard, logger *zap.SugaredLogger, secureCookie bool) *AuthHandler {
	b := newBase(guard, logger)
	return &AuthHandler{
		base:         b,
		store:        store,
		tokens:       tokens,
		revoker:      revoker,
		google:       google,
		notify:       notifier{store: store, logger: b.logger},
		secureCookie: secureCookie,
	}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signin", h.handleSignin)
	mux.HandleFunc("POST /api/auth/google-signin", h.handleGoogleSignin)
	mux.HandleFunc("POST /api/talent/signup", h.handleSignup(session.RoleTalent))
	mux.HandleFunc("POST /api/manager/signup", h.handleSignup(session.RoleManager))
	h.protect(mux, "POST /api/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}
	user, err := h.store.FindByEmail(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.logger.Infow("signin failed: unknown user", "username", username)
			respond.Error(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.storeError(w, r, err, "user")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.logger.Infow("signin failed: bad password", "username", username)
		respond.Error(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	h.issueSession(w, r, user)
}

func (h *AuthHandler) handleGoogleSignin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respond.Error(w, http.StatusNotImplemented, "google sign-in is not configured")
		return
	}
	var req dto.GoogleSignInRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		respond.Error(w, http.StatusBadRequest, "google ID token is missing")
		return
	}
	identity, err := h.google.Verify(r.Context(), req.IDToken)
	if err != nil {
		h.logger.Infow("google signin rejected", "error", err)
		respond.Error(w, http.StatusUnauthorized, "invalid google ID token")
		return
	}

	user, err := h.store.FindByEmail(r.Context(), identity.Email)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = h.registerGoogleUser(r, identity)
	}
	if err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	h.issueSession(w, r, user)
}

// registerGoogleUser creates a talent account awaiting approval. The stored
// password hash is random, so only Google sign-in works for it.
func (h *AuthHandler) registerGoogleUser(r *http.Request, identity auth.GoogleIdentity) (models.User, error) {
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return models.User{}, err
	}
	created, err := h.store.CreateUser(r.Context(), models.User{
		Email:        identity.Email,
		FirstName:    identity.GivenName,
		LastName:     identity.FamilyName,
		ImagePath:    identity.Picture,
		Role:         session.RoleTalent,
		Status:       models.StatusWaiting,
		PasswordHash: hash,
	}, nil)
	if err != nil {
		return models.User{}, err
	}
	h.notify.role(r.Context(), session.RoleAdmin, models.NotifyNewUserRegistered,
		fmt.Sprintf("New talent %s signed up with Google and awaits approval", created.Email))
	return created, nil
}

// issueSession answers 423 for accounts not yet accepted, otherwise signs a
// token, sets the session cookie and returns the login payload.
func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user models.User) {
	if !user.CanSignIn() {
		respond.JSON(w, http.StatusLocked, "account is pending approval or was rejected",
			map[string]any{"status": user.Status, "email": user.Email})
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.Errorw("generate token failed", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	if err := h.store.TouchLastLogin(r.Context(), user.ID); err != nil {
		h.logger.Warnw("record last login failed", "user_id", user.ID, "error", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		JWTToken: token,
		Username: user.Email,
		UserRole: user.Role.String(),
		Status:   user.Status,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := caller(r)
	if h.revoker != nil && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.logger.Errorw("revoke token failed", "jti", claims.ID, "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to sign out")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) handleSignup(role session.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SignupRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		user, company, err := signupUser(req, role)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if user.PasswordHash, err = auth.HashPassword(req.Password); err != nil {
			h.logger.Errorw("hash password failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		created, err := h.store.CreateUser(r.Context(), user, company)
		if err != nil {
			h.storeError(w, r, err, "user")
			return
		}
		h.notify.role(r.Context(), session.RoleAdmin, models.NotifyNewUserRegistered,
			fmt.Sprintf("New %s %s awaits approval", strings.ToLower(role.String()), created.Email))
		respond.JSON(w, http.StatusCreated, "account created and awaiting approval", created)
	}
}

// signupUser validates the signup payload and builds the account to create.
func signupUser(req dto.SignupRequest, role session.Role) (models.User, *models.Company, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, nil, errors.New("a valid email is required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return models.User{}, nil, errors.New("first and last name are required")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return models.User{}, nil, err
	}
	birth, err := parseDate(req.BirthDate)
	if err != nil {
		return models.User{}, nil, err
	}
	user := models.User{
		Email:       email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		Nationality: strings.TrimSpace(req.Nationality),
		City:        strings.TrimSpace(req.City),
		BirthDate:   birth,
		Role:        role,
		Status:      models.StatusWaiting,
	}
	if role != session.RoleManager {
		return user, nil, nil
	}
	if req.Company == nil || strings.TrimSpace(req.Company.Name) == "" {
		return models.User{}, nil, errors.New("company name is required")
	}
	return user, companyFromRequest(*req.Company), nil
}

func companyFromRequest(req dto.CompanyRequest) *models.Company {
	return &models.Company{
		Name:           strings.TrimSpace(req.Name),
		Address:        strings.TrimSpace(req.Address),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		Website:        strings.TrimSpace(req.Website),
		Description:    strings.TrimSpace(req.Description),
		SectorActivity: strings.TrimSpace(req.SectorActivity),
	}
}
