package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func (s *Store) ListOffers(_ context.Context) ([]models.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedOffers(func(models.Offer) bool { return true }), nil
}

func (s *Store) ListOffersByManager(_ context.Context, managerID int64) ([]models.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedOffers(func(o models.Offer) bool { return o.OwnedBy(managerID) }), nil
}

// sortedOffers returns matching offers newest first, like the SQL store.
func (s *Store) sortedOffers(keep func(models.Offer) bool) []models.Offer {
	out := make([]models.Offer, 0, len(s.offers))
	for _, row := range s.offers {
		if keep(row.offer) {
			out = append(out, s.hydrate(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) GetOffer(_ context.Context, id int64) (models.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.offers[id]
	if !ok {
		return models.Offer{}, storage.ErrNotFound
	}
	return s.hydrate(row), nil
}

func (s *Store) CreateOffer(_ context.Context, offer models.Offer, contractTypeIDs []int64) (models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkContractTypes(contractTypeIDs); err != nil {
		return models.Offer{}, err
	}
	normalizeOffer(&offer)
	now := s.now()
	offer.ID = s.nextID()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	row := offerRow{offer: offer, contractTypeIDs: append([]int64(nil), contractTypeIDs...)}
	s.offers[offer.ID] = row
	return s.hydrate(row), nil
}

func (s *Store) UpdateOffer(_ context.Context, offer models.Offer, contractTypeIDs []int64) (models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.offers[offer.ID]
	if !ok {
		return models.Offer{}, storage.ErrNotFound
	}
	if err := s.checkContractTypes(contractTypeIDs); err != nil {
		return models.Offer{}, err
	}
	normalizeOffer(&offer)
	offer.CreatedAt = existing.offer.CreatedAt
	offer.ManagerID = existing.offer.ManagerID
	offer.UpdatedAt = s.now()
	row := offerRow{offer: offer, contractTypeIDs: append([]int64(nil), contractTypeIDs...)}
	s.offers[offer.ID] = row
	return s.hydrate(row), nil
}

func (s *Store) DeleteOffer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.offers, id)
	for aid, a := range s.applications {
		if a.OfferID == id {
			delete(s.applications, aid)
		}
	}
	return nil
}

func (s *Store) ListContractTypes(_ context.Context) ([]models.ContractType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ContractType(nil), s.contractTypes...), nil
}

func (s *Store) checkContractTypes(ids []int64) error {
	for _, id := range ids {
		if _, ok := s.contractType(id); !ok {
			return fmt.Errorf("contract type %d: %w", id, storage.ErrNotFound)
		}
	}
	return nil
}

func (s *Store) contractType(id int64) (models.ContractType, bool) {
	for _, ct := range s.contractTypes {
		if ct.ID == id {
			return ct, true
		}
	}
	return models.ContractType{}, false
}

func (s *Store) hydrate(row offerRow) models.Offer {
	o := row.offer
	o.ContractTypes = make([]models.ContractType, 0, len(row.contractTypeIDs))
	for _, id := range row.contractTypeIDs {
		if ct, ok := s.contractType(id); ok {
			o.ContractTypes = append(o.ContractTypes, ct)
		}
	}
	o.Skills = append(make([]string, 0, len(o.Skills)), o.Skills...)
	o.Languages = append(make([]models.OfferLanguage, 0, len(o.Languages)), o.Languages...)
	return o
}

// normalizeOffer applies the column defaults of the SQL store.
func normalizeOffer(o *models.Offer) {
	if o.Languages == nil {
		o.Languages = []models.OfferLanguage{}
	}
	if o.Skills == nil {
		o.Skills = []string{}
	}
	if o.Modality == "" {
		o.Modality = models.ModalityOnSite
	}
	if o.Status == "" {
		o.Status = models.OfferOpen
	}
}
