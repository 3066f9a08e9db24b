package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// NotificationsHandler serves the caller's notification feed.
type NotificationsHandler struct {
	base
	store storage.NotificationStore
}

func NewNotificationsHandler(store storage.NotificationStore, guard session.Guard, logger *zap.SugaredLogger) *NotificationsHandler {
	return &NotificationsHandler{base: newBase(guard, logger), store: store}
}

// Register attaches notification routes to the mux.
func (h *NotificationsHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "GET /api/notifications", h.handleList)
	h.protect(mux, "PUT /api/notifications/read", h.handleMarkRead)
}

func (h *NotificationsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	_, userID := caller(r)
	items, err := h.store.ListNotifications(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "notifications")
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	respond.JSON(w, http.StatusOK, "notifications", map[string]any{
		"items":  items,
		"unread": unread,
	})
}

func (h *NotificationsHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, userID := caller(r)
	if err := h.store.MarkAllRead(r.Context(), userID); err != nil {
		h.storeError(w, r, err, "notifications")
		return
	}
	respond.JSON(w, http.StatusOK, "notifications marked as read", nil)
}
