package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
)

// ApplicationsHandler serves talent applications and their review.
type ApplicationsHandler struct {
	base
	store  OfferStore
	notify notifier
}

func NewApplicationsHandler(store OfferStore, guard session.Guard, logger *zap.SugaredLogger) *ApplicationsHandler {
	b := newBase(guard, logger)
	return &ApplicationsHandler{base: b, store: store, notify: notifier{store: store, logger: b.logger}}
}

// Register attaches application routes to the mux.
func (h *ApplicationsHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "POST /api/applications", h.handleApply, session.RoleTalent)
	h.protect(mux, "GET /api/applications/mine", h.handleMine, session.RoleTalent)
	h.protect(mux, "GET /api/applications/manager", h.handleManager, session.RoleManager)
	h.protect(mux, "GET /api/offers/{id}/applications", h.handleByOffer, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "PUT /api/applications/{id}/status", h.handleStatus, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "DELETE /api/applications/{id}", h.handleWithdraw, session.RoleAdmin, session.RoleTalent)
}

func (h *ApplicationsHandler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplicationRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.OfferID <= 0 {
		respond.Error(w, http.StatusBadRequest, "offerId is required")
		return
	}
	_, userID := caller(r)
	talent, err := h.store.TalentByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "talent profile")
		return
	}
	offer, err := h.store.GetOffer(r.Context(), req.OfferID)
	if err != nil {
		h.storeError(w, r, err, "offer")
		return
	}
	if offer.Status != models.OfferOpen {
		respond.Error(w, http.StatusConflict, "offer is not open for applications")
		return
	}
	if req.CVID != nil && !ownsCV(talent, *req.CVID) {
		respond.Error(w, http.StatusBadRequest, "unknown CV")
		return
	}

	created, err := h.store.CreateApplication(r.Context(), models.Application{
		TalentID:        talent.ID,
		OfferID:         offer.ID,
		CVID:            req.CVID,
		CoverLetterPath: strings.TrimSpace(req.CoverLetterPath),
		Notes:           strings.TrimSpace(req.Notes),
	})
	if err != nil {
		h.storeError(w, r, err, "application")
		return
	}

	h.notify.user(r.Context(), userID, models.NotifyApplicationSubmitted,
		fmt.Sprintf("Your application to %q was submitted", offer.Title))
	if offer.ManagerID != nil {
		if mgrUser, err := h.store.ManagerUserID(r.Context(), *offer.ManagerID); err == nil {
			h.notify.user(r.Context(), mgrUser, models.NotifyNewCandidate,
				fmt.Sprintf("%s applied to %q", talent.User.FullName(), offer.Title))
		}
	}
	respond.JSON(w, http.StatusCreated, "application submitted", created)
}

func (h *ApplicationsHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	_, userID := caller(r)
	talent, err := h.store.TalentByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "talent profile")
		return
	}
	apps, err := h.store.ListByTalent(r.Context(), talent.ID)
	if err != nil {
		h.storeError(w, r, err, "applications")
		return
	}
	respond.JSON(w, http.StatusOK, "applications", apps)
}

func (h *ApplicationsHandler) handleManager(w http.ResponseWriter, r *http.Request) {
	_, userID := caller(r)
	mgr, err := h.store.ManagerByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "manager profile")
		return
	}
	apps, err := h.store.ListByManager(r.Context(), mgr.ID)
	if err != nil {
		h.storeError(w, r, err, "applications")
		return
	}
	respond.JSON(w, http.StatusOK, "applications", apps)
}

func (h *ApplicationsHandler) handleByOffer(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	offer, err := h.store.GetOffer(r.Context(), offerID)
	if err != nil {
		h.storeError(w, r, err, "offer")
		return
	}
	if !h.mayReview(w, r, offer) {
		return
	}
	apps, err := h.store.ListByOffer(r.Context(), offer.ID)
	if err != nil {
		h.storeError(w, r, err, "applications")
		return
	}
	respond.JSON(w, http.StatusOK, "applications", apps)
}

// handleStatus moves an application through review. Accepted and rejected
// applications are final.
func (h *ApplicationsHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid application id")
		return
	}
	var req dto.StatusUpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	status, err := models.ParseApplicationStatus(req.Status)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	app, err := h.store.GetApplication(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "application")
		return
	}
	offer, err := h.store.GetOffer(r.Context(), app.OfferID)
	if err != nil {
		h.storeError(w, r, err, "offer")
		return
	}
	if !h.mayReview(w, r, offer) {
		return
	}
	if app.Status.Final() && app.Status != status {
		respond.Error(w, http.StatusConflict, fmt.Sprintf("application is already %s", strings.ToLower(string(app.Status))))
		return
	}

	updated, err := h.store.UpdateApplicationStatus(r.Context(), id, status)
	if err != nil {
		h.storeError(w, r, err, "application")
		return
	}
	notifyTalentUser(r, h.store, h.notify, updated.TalentID, models.NotifyApplicationStatusUpdate,
		fmt.Sprintf("Your application to %q is now %s", offer.Title, updated.Status))
	respond.JSON(w, http.StatusOK, "application updated", updated)
}

func (h *ApplicationsHandler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid application id")
		return
	}
	app, err := h.store.GetApplication(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "application")
		return
	}
	claims, userID := caller(r)
	if claims.Role == session.RoleTalent {
		talent, err := h.store.TalentByUser(r.Context(), userID)
		if err != nil {
			h.storeError(w, r, err, "talent profile")
			return
		}
		if app.TalentID != talent.ID {
			respond.Error(w, http.StatusForbidden, "application belongs to another talent")
			return
		}
	}
	if err := h.store.DeleteApplication(r.Context(), id); err != nil {
		h.storeError(w, r, err, "application")
		return
	}
	respond.JSON(w, http.StatusOK, "application withdrawn", nil)
}

// mayReview lets admins review any offer and managers only their own.
func (h *ApplicationsHandler) mayReview(w http.ResponseWriter, r *http.Request, offer models.Offer) bool {
	claims, userID := caller(r)
	if claims.Role == session.RoleAdmin {
		return true
	}
	mgr, err := h.store.ManagerByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "manager profile")
		return false
	}
	if !offer.OwnedBy(mgr.ID) {
		respond.Error(w, http.StatusForbidden, "offer belongs to another manager")
		return false
	}
	return true
}

func ownsCV(t models.Talent, cvID int64) bool {
	for _, cv := range t.CVs {
		if cv.ID == cvID {
			return true
		}
	}
	return false
}
