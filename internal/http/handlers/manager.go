package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// ManagerHandler serves the manager's company record.
type ManagerHandler struct {
	base
	store storage.ProfileStore
}

func NewManagerHandler(store storage.ProfileStore, guard session.Guard, logger *zap.SugaredLogger) *ManagerHandler {
	return &ManagerHandler{base: newBase(guard, logger), store: store}
}

// Register attaches manager routes to the mux.
func (h *ManagerHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "PUT /api/manager/company", h.handleCompany, session.RoleManager)
}

func (h *ManagerHandler) handleCompany(w http.ResponseWriter, r *http.Request) {
	var req dto.CompanyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	company := companyFromRequest(req)
	if company.Name == "" {
		respond.Error(w, http.StatusBadRequest, "company name is required")
		return
	}
	_, userID := caller(r)
	mgr, err := h.store.ManagerByUser(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "manager profile")
		return
	}
	if mgr.Company != nil {
		company.Logo = mgr.Company.Logo
	}
	saved, err := h.store.UpsertCompany(r.Context(), mgr.ID, *company)
	if err != nil {
		h.storeError(w, r, err, "company")
		return
	}
	respond.JSON(w, http.StatusOK, "company updated", saved)
}
