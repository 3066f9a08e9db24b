package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func (s *Store) Notify(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[n.RecipientID]; !ok {
		return storage.ErrNotFound
	}
	n.ID = s.nextID()
	n.CreatedAt = s.now()
	s.notifications[n.ID] = n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, recipientID int64) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) MarkAllRead(_ context.Context, recipientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.RecipientID == recipientID {
			n.Read = true
			s.notifications[id] = n
		}
	}
	return nil
}

func (s *Store) CountOffers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.offers), nil
}

func (s *Store) CountApplications(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.applications), nil
}

func (s *Store) CountUsers(_ context.Context, filter storage.UserFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if matchesUser(u, filter) {
			n++
		}
	}
	return n, nil
}

// OffersGroupedBy counts offers per non-empty field value, largest first.
// A limit of zero returns every bucket.
func (s *Store) OffersGroupedBy(_ context.Context, field storage.GroupField, limit int) ([]models.CountBy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, row := range s.offers {
		label := strings.TrimSpace(groupValue(row.offer, field))
		if label != "" {
			counts[label]++
		}
	}
	out := make([]models.CountBy, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.CountBy{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func groupValue(o models.Offer, field storage.GroupField) string {
	switch field {
	case storage.GroupSector:
		return o.SectorActivity
	case storage.GroupModality:
		return string(o.Modality)
	case storage.GroupStudyLevel:
		return o.StudyLevel
	case storage.GroupRegion:
		return o.Location
	default:
		return ""
	}
}
