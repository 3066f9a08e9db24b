package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

type notifyStore interface {
	storage.UserStore
	storage.NotificationStore
}

// notifier fans notifications out to users. Delivery is best effort: a
// failed insert is logged and never fails the request that caused it.
type notifier struct {
	store  notifyStore
	logger *zap.SugaredLogger
}

func (n notifier) user(ctx context.Context, userID int64, typ models.NotificationType, message string) {
	err := n.store.Notify(ctx, models.Notification{RecipientID: userID, Type: typ, Message: message})
	if err != nil {
		n.logger.Warnw("notify failed", "recipient", userID, "type", typ, "error", err)
	}
}

// role notifies every accepted user holding role.
func (n notifier) role(ctx context.Context, role session.Role, typ models.NotificationType, message string) {
	users, err := n.store.ListUsers(ctx, storage.UserFilter{Role: role, Status: models.StatusAccepted})
	if err != nil {
		n.logger.Warnw("notify: list recipients failed", "role", role, "error", err)
		return
	}
	for _, u := range users {
		n.user(ctx, u.ID, typ, message)
	}
}

type talentResolver interface {
	TalentUserID(ctx context.Context, talentID int64) (int64, error)
}

// notifyTalentUser notifies the account behind a talent profile.
func notifyTalentUser(r *http.Request, store talentResolver, n notifier, talentID int64, typ models.NotificationType, message string) {
	userID, err := store.TalentUserID(r.Context(), talentID)
	if err != nil {
		n.logger.Warnw("notify: resolve talent failed", "talent", talentID, "error", err)
		return
	}
	n.user(r.Context(), userID, typ, message)
}
