package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/offers"
	"github.com/jobmaroc/jobboard/internal/paging"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// OfferStore is the persistence OffersHandler needs.
type OfferStore interface {
	storage.UserStore
	storage.OfferStore
	storage.ApplicationStore
	storage.ProfileStore
	storage.NotificationStore
}

// OffersHandler serves the offer catalogue and its CRUD operations.
type OffersHandler struct {
	base
	store  OfferStore
	notify notifier
}

func NewOffersHandler(store OfferStore, guard session.Guard, logger *zap.SugaredLogger) *OffersHandler {
	b := newBase(guard, logger)
	return &OffersHandler{base: b, store: store, notify: notifier{store: store, logger: b.logger}}
}

// Register attaches offer routes to the mux.
func (h *OffersHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "GET /api/offers", h.handleList)
	h.protect(mux, "GET /api/offers/{id}", h.handleGet)
	h.protect(mux, "POST /api/offers", h.handleCreate, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "PUT /api/offers/{id}", h.handleUpdate, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "DELETE /api/offers/{id}", h.handleDelete, session.RoleAdmin, session.RoleManager)
	h.protect(mux, "GET /api/contract-types", h.handleContractTypes)
}

// handleList filters the catalogue by search, modality and sector and returns
// one page. Managers may pass mine=true to restrict it to their own offers.
func (h *OffersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query, page, size := offers.ParseQuery(r.URL.Query())
	claims, userID := caller(r)

	var (
		all []models.Offer
		err error
	)
	if claims.Role == session.RoleManager && r.URL.Query().Get("mine") == "true" {
		mgr, mErr := h.store.ManagerByUser(r.Context(), userID)
		if mErr != nil {
			h.storeError(w, r, mErr, "manager profile")
			return
		}
		all, err = h.store.ListOffersByManager(r.Context(), mgr.ID)
	} else {
		all, err = h.store.ListOffers(r.Context())
	}
	if err != nil {
		h.storeError(w, r, err, "offers")
		return
	}

	result := query.Apply(all, page, size)
	respond.JSON(w, http.StatusOK, "offers", dto.OfferPage{
		Page:  result,
		Strip: paging.Strip(result.Number, result.TotalPages),
	})
}

func (h *OffersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	offer, err := h.store.GetOffer(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "offer")
		return
	}
	respond.JSON(w, http.StatusOK, "offer", offer)
}

func (h *OffersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.OfferRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	offer, err := offerFromRequest(req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	claims, userID := caller(r)
	if claims.Role == session.RoleManager {
		mgr, err := h.store.ManagerByUser(r.Context(), userID)
		if err != nil {
			h.storeError(w, r, err, "manager profile")
			return
		}
		offer.ManagerID = &mgr.ID
		if offer.CompanyName == "" && mgr.Company != nil {
			offer.CompanyName = mgr.Company.Name
		}
	}

	created, err := h.store.CreateOffer(r.Context(), offer, req.ContractTypeIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusBadRequest, "unknown contract type")
			return
		}
		h.storeError(w, r, err, "offer")
		return
	}
	h.notify.role(r.Context(), session.RoleTalent, models.NotifyNewOfferCreated,
		fmt.Sprintf("New offer: %s", created.Title))
	respond.JSON(w, http.StatusCreated, "offer created", created)
}

func (h *OffersHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedOffer(w, r)
	if !ok {
		return
	}
	var req dto.OfferRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	offer, err := offerFromRequest(req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	offer.ID = existing.ID
	offer.ManagerID = existing.ManagerID

	updated, err := h.store.UpdateOffer(r.Context(), offer, req.ContractTypeIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusBadRequest, "unknown contract type")
			return
		}
		h.storeError(w, r, err, "offer")
		return
	}

	if apps, err := h.store.ListByOffer(r.Context(), updated.ID); err == nil {
		for _, app := range apps {
			h.notifyTalent(r, app.TalentID, models.NotifyUpdatedOffer,
				fmt.Sprintf("The offer %q you applied to was updated", updated.Title))
		}
	}
	respond.JSON(w, http.StatusOK, "offer updated", updated)
}

func (h *OffersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedOffer(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteOffer(r.Context(), existing.ID); err != nil {
		h.storeError(w, r, err, "offer")
		return
	}
	respond.JSON(w, http.StatusOK, "offer deleted", nil)
}

func (h *OffersHandler) handleContractTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListContractTypes(r.Context())
	if err != nil {
		h.storeError(w, r, err, "contract types")
		return
	}
	respond.JSON(w, http.StatusOK, "contract types", types)
}

// ownedOffer loads the offer named in the path and checks the caller may
// change it: admins may change any offer, managers only their own.
func (h *OffersHandler) ownedOffer(w http.ResponseWriter, r *http.Request) (models.Offer, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid offer id")
		return models.Offer{}, false
	}
	offer, err := h.store.GetOffer(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "offer")
		return models.Offer{}, false
	}
	claims, userID := caller(r)
	if claims.Role == session.RoleAdmin {
		return offer, true
	}
	mgr, err := h.store.ManagerByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "manager profile")
		return models.Offer{}, false
	}
	if !offer.OwnedBy(mgr.ID) {
		respond.Error(w, http.StatusForbidden, "offer belongs to another manager")
		return models.Offer{}, false
	}
	return offer, true
}

// notifyTalent resolves a talent profile id to its user before notifying.
func (h *OffersHandler) notifyTalent(r *http.Request, talentID int64, typ models.NotificationType, message string) {
	notifyTalentUser(r, h.store, h.notify, talentID, typ, message)
}

func offerFromRequest(req dto.OfferRequest) (models.Offer, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Offer{}, errors.New("title is required")
	}
	modality, err := models.ParseModality(req.Modality)
	if err != nil {
		return models.Offer{}, err
	}
	status, err := models.ParseOfferStatus(req.Status)
	if err != nil {
		return models.Offer{}, err
	}
	published, err := parseDate(req.DatePublication)
	if err != nil {
		return models.Offer{}, err
	}
	expires, err := parseDate(req.DateExpiration)
	if err != nil {
		return models.Offer{}, err
	}
	if published != nil && expires != nil && expires.Before(*published) {
		return models.Offer{}, errors.New("expiration date precedes publication date")
	}
	if req.BasicSalary != nil && *req.BasicSalary < 0 {
		return models.Offer{}, errors.New("salary cannot be negative")
	}
	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	languages := req.Languages
	if languages == nil {
		languages = []models.OfferLanguage{}
	}
	return models.Offer{
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		Location:        strings.TrimSpace(req.Location),
		BasicSalary:     req.BasicSalary,
		DatePublication: published,
		DateExpiration:  expires,
		CompanyName:     strings.TrimSpace(req.CompanyName),
		SectorActivity:  strings.TrimSpace(req.SectorActivity),
		StudyLevel:      strings.TrimSpace(req.StudyLevel),
		Experience:      strings.TrimSpace(req.Experience),
		Languages:       languages,
		Skills:          skills,
		Modality:        modality,
		Status:          status,
		FlexibleHours:   req.FlexibleHours,
		URL:             strings.TrimSpace(req.URL),
	}, nil
}
