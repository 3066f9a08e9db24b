package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/accounts"
	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// UserStore is the persistence UsersHandler needs.
type UserStore interface {
	storage.UserStore
	storage.ProfileStore
	storage.NotificationStore
}

// UsersHandler serves account administration and the caller's own profile.
type UsersHandler struct {
	base
	store  UserStore
	notify notifier
}

func NewUsersHandler(store UserStore, guard session.Guard, logger *zap.SugaredLogger) *UsersHandler {
	b := newBase(guard, logger)
	return &UsersHandler{base: b, store: store, notify: notifier{store: store, logger: b.logger}}
}

// Register attaches user and profile routes to the mux.
func (h *UsersHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "GET /api/users", h.handleList, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "GET /api/users/pending", h.handlePending, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "PUT /api/users/{id}/status", h.handleStatus, session.RoleAdmin)
	h.protect(mux, "DELETE /api/users/{id}", h.handleDelete, session.RoleAdmin)
	h.protect(mux, "GET /api/profile", h.handleProfile)
	h.protect(mux, "PUT /api/profile", h.handleUpdateProfile)
	h.protect(mux, "PUT /api/profile/password", h.handlePassword)
}

// handleList accepts optional role and status filters. Managers only ever see talents.
func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := storage.UserFilter{}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := session.ParseRole(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Role = role
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseAcceptanceStatus(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	h.list(w, r, filter)
}

func (h *UsersHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, storage.UserFilter{Status: models.StatusWaiting})
}

// list also applies the optional search and sort parameters.
func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request, filter storage.UserFilter) {
	query, err := accounts.ParseQuery(r.URL.Query())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if claims, _ := caller(r); claims.Role == session.RoleManager {
		filter.Role = session.RoleTalent
	}
	users, err := h.store.ListUsers(r.Context(), filter)
	if err != nil {
		h.storeError(w, r, err, "users")
		return
	}
	respond.JSON(w, http.StatusOK, "users", query.Apply(users))
}

func (h *UsersHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req dto.StatusUpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	status, err := models.ParseAcceptanceStatus(req.Status)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	h.notify.user(r.Context(), updated.ID, models.NotifyUserUpdated,
		fmt.Sprintf("Your account is now %s", strings.ToLower(string(updated.Status))))
	respond.JSON(w, http.StatusOK, "user status updated", updated)
}

func (h *UsersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if _, self := caller(r); self == id {
		respond.Error(w, http.StatusConflict, "administrators cannot delete their own account")
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	respond.JSON(w, http.StatusOK, "user deleted", nil)
}

func (h *UsersHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, userID := caller(r)
	user, err := h.store.FindByID(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	out := dto.ProfileResponse{User: user}
	switch claims.Role {
	case session.RoleTalent:
		t, err := h.store.TalentByUser(r.Context(), userID)
		if err != nil {
			h.storeError(w, r, err, "talent profile")
			return
		}
		out.Talent = &t
	case session.RoleManager:
		m, err := h.store.ManagerByUser(r.Context(), userID)
		if err != nil {
			h.storeError(w, r, err, "manager profile")
			return
		}
		out.Manager = &m
	}
	respond.JSON(w, http.StatusOK, "profile", out)
}

// handleUpdateProfile applies only the fields present in the payload.
func (h *UsersHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileUpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	_, userID := caller(r)
	user, err := h.store.FindByID(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	for dst, src := range map[*string]*string{
		&user.FirstName:   req.FirstName,
		&user.LastName:    req.LastName,
		&user.Phone:       req.Phone,
		&user.Address:     req.Address,
		&user.Nationality: req.Nationality,
		&user.City:        req.City,
		&user.ImagePath:   req.ImagePath,
	} {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	if user.FirstName == "" || user.LastName == "" {
		respond.Error(w, http.StatusBadRequest, "first and last name are required")
		return
	}
	updated, err := h.store.UpdateUser(r.Context(), user)
	if err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", updated)
}

func (h *UsersHandler) handlePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	_, userID := caller(r)
	user, err := h.store.FindByID(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		respond.Error(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.storeError(w, r, errors.Join(errors.New("hash password"), err), "password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), userID, hash); err != nil {
		h.storeError(w, r, err, "user")
		return
	}
	respond.JSON(w, http.StatusOK, "password changed", nil)
}
