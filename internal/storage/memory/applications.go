package memory

import (
	"context"
	"sort"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func (s *Store) CreateApplication(_ context.Context, app models.Application) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[app.OfferID]; !ok {
		return models.Application{}, storage.ErrNotFound
	}
	if _, ok := s.talents[app.TalentID]; !ok {
		return models.Application{}, storage.ErrNotFound
	}
	for _, existing := range s.applications {
		if existing.TalentID == app.TalentID && existing.OfferID == app.OfferID {
			return models.Application{}, storage.ErrAlreadyExists
		}
	}
	now := s.now()
	app.ID = s.nextID()
	if app.Status == "" {
		app.Status = models.ApplicationApplied
	}
	app.AppliedAt = now
	app.UpdatedAt = now
	s.applications[app.ID] = app
	return s.decorate(app), nil
}

func (s *Store) GetApplication(_ context.Context, id int64) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[id]
	if !ok {
		return models.Application{}, storage.ErrNotFound
	}
	return s.decorate(app), nil
}

func (s *Store) ListByTalent(_ context.Context, talentID int64) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectApplications(func(a models.Application) bool { return a.TalentID == talentID }), nil
}

func (s *Store) ListByOffer(_ context.Context, offerID int64) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectApplications(func(a models.Application) bool { return a.OfferID == offerID }), nil
}

func (s *Store) ListByManager(_ context.Context, managerID int64) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectApplications(func(a models.Application) bool {
		row, ok := s.offers[a.OfferID]
		return ok && row.offer.OwnedBy(managerID)
	}), nil
}

func (s *Store) UpdateApplicationStatus(_ context.Context, id int64, status models.ApplicationStatus) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return models.Application{}, storage.ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = s.now()
	s.applications[id] = app
	return s.decorate(app), nil
}

func (s *Store) DeleteApplication(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *Store) collectApplications(keep func(models.Application) bool) []models.Application {
	out := make([]models.Application, 0)
	for _, a := range s.applications {
		if keep(a) {
			out = append(out, s.decorate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// decorate fills the denormalised offer title and talent email.
func (s *Store) decorate(a models.Application) models.Application {
	if row, ok := s.offers[a.OfferID]; ok {
		a.OfferTitle = row.offer.Title
	}
	if t, ok := s.talents[a.TalentID]; ok {
		if u, ok := s.users[t.UserID]; ok {
			a.TalentEmail = u.Email
		}
	}
	return a
}
