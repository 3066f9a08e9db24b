package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

const topSectorLimit = 5

// StatisticsHandler serves the dashboard aggregates.
type StatisticsHandler struct {
	base
	store storage.StatsStore
}

func NewStatisticsHandler(store storage.StatsStore, guard session.Guard, logger *zap.SugaredLogger) *StatisticsHandler {
	return &StatisticsHandler{base: newBase(guard, logger), store: store}
}

// Register attaches statistics routes to the mux.
func (h *StatisticsHandler) Register(mux *http.ServeMux) {
	h.protect(mux, "GET /api/statistics", h.handleStatistics, session.RoleAdmin, session.RoleManager)
}

// handleStatistics runs every aggregate query concurrently; the first
// failure cancels the rest.
func (h *StatisticsHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	var stats models.Statistics
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() (err error) {
		stats.TotalOffers, err = h.store.CountOffers(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.TotalApplications, err = h.store.CountApplications(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.TotalTalents, err = h.store.CountUsers(ctx, storage.UserFilter{Role: session.RoleTalent})
		return
	})
	g.Go(func() (err error) {
		stats.TotalManagers, err = h.store.CountUsers(ctx, storage.UserFilter{Role: session.RoleManager})
		return
	})
	g.Go(func() (err error) {
		stats.PendingApprovals, err = h.store.CountUsers(ctx, storage.UserFilter{Status: models.StatusWaiting})
		return
	})
	g.Go(func() (err error) {
		stats.TopSectors, err = h.store.OffersGroupedBy(ctx, storage.GroupSector, topSectorLimit)
		return
	})
	g.Go(func() (err error) {
		stats.OffersByModality, err = h.store.OffersGroupedBy(ctx, storage.GroupModality, 0)
		return
	})
	g.Go(func() (err error) {
		stats.OffersByStudyLevel, err = h.store.OffersGroupedBy(ctx, storage.GroupStudyLevel, 0)
		return
	})
	g.Go(func() (err error) {
		stats.OffersByRegion, err = h.store.OffersGroupedBy(ctx, storage.GroupRegion, 0)
		return
	})

	if err := g.Wait(); err != nil {
		h.storeError(w, r, err, "statistics")
		return
	}
	respond.JSON(w, http.StatusOK, "statistics", stats)
}
