// Package memory is an in-process storage.Store used by tests and the
// STORAGE_DRIVER=memory development mode.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// DefaultContractTypes seeds the contract-type lookup.
var DefaultContractTypes = []string{"CDI", "CDD", "Stage", "Freelance", "Intérim"}

// Store keeps every table in maps guarded by one mutex.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	users         map[int64]models.User
	talents       map[int64]models.Talent  // by talent id
	managers      map[int64]models.Manager // by manager id
	companies     map[int64]models.Company
	offers        map[int64]offerRow
	contractTypes []models.ContractType
	applications  map[int64]models.Application
	notifications map[int64]models.Notification
}

type offerRow struct {
	offer           models.Offer
	contractTypeIDs []int64
}

// New returns an empty store with the default contract types.
func New() *Store {
	s := &Store{
		now:           time.Now,
		users:         make(map[int64]models.User),
		talents:       make(map[int64]models.Talent),
		managers:      make(map[int64]models.Manager),
		companies:     make(map[int64]models.Company),
		offers:        make(map[int64]offerRow),
		applications:  make(map[int64]models.Application),
		notifications: make(map[int64]models.Notification),
	}
	for _, name := range DefaultContractTypes {
		s.contractTypes = append(s.contractTypes, models.ContractType{ID: s.nextID(), Name: name})
	}
	return s
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) CreateUser(_ context.Context, user models.User, company *models.Company) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = s.nextID()
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = s.now()
	}
	if user.Status == "" {
		user.Status = models.StatusWaiting
	}
	s.users[user.ID] = user

	switch user.Role {
	case session.RoleTalent:
		id := s.nextID()
		s.talents[id] = models.Talent{ID: id, UserID: user.ID}
	case session.RoleManager:
		id := s.nextID()
		m := models.Manager{ID: id, UserID: user.ID, CreatedAt: s.now()}
		if company != nil {
			c := *company
			c.ID = s.nextID()
			s.companies[c.ID] = c
			m.Company = &c
		}
		s.managers[id] = m
	}
	return user, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) ListUsers(_ context.Context, filter storage.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if matchesUser(u, filter) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesUser(u models.User, f storage.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	return true
}

func (s *Store) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Phone = user.Phone
	existing.Address = user.Address
	existing.Nationality = user.Nationality
	existing.City = user.City
	existing.ImagePath = user.ImagePath
	s.users[user.ID] = existing
	return existing, nil
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status models.AcceptanceStatus) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	u.Status = status
	s.users[id] = u
	return u, nil
}

func (s *Store) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *Store) TouchLastLogin(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := s.now()
	u.LastLoginDate = &now
	s.users[id] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for tid, t := range s.talents {
		if t.UserID != id {
			continue
		}
		for aid, a := range s.applications {
			if a.TalentID == tid {
				delete(s.applications, aid)
			}
		}
		delete(s.talents, tid)
	}
	for mid, m := range s.managers {
		if m.UserID != id {
			continue
		}
		for oid, row := range s.offers {
			if row.offer.OwnedBy(mid) {
				row.offer.ManagerID = nil
				s.offers[oid] = row
			}
		}
		delete(s.managers, mid)
	}
	for nid, n := range s.notifications {
		if n.RecipientID == id {
			delete(s.notifications, nid)
		}
	}
	return nil
}
