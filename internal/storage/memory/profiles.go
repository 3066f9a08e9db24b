package memory

import (
	"context"
	"sort"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func (s *Store) TalentByUser(_ context.Context, userID int64) (models.Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.talentByUser(userID)
	if !ok {
		return models.Talent{}, storage.ErrNotFound
	}
	t.User = s.users[userID]
	t.Skills = append([]models.Skill(nil), t.Skills...)
	t.Diplomas = append([]models.Diploma(nil), t.Diplomas...)
	t.Experiences = append([]models.Experience(nil), t.Experiences...)
	t.CVs = append([]models.CV(nil), t.CVs...)
	return t, nil
}

func (s *Store) TalentUserID(_ context.Context, talentID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.talents[talentID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return t.UserID, nil
}

func (s *Store) talentByUser(userID int64) (models.Talent, bool) {
	for _, t := range s.talents {
		if t.UserID == userID {
			return t, true
		}
	}
	return models.Talent{}, false
}

func (s *Store) ManagerByUser(_ context.Context, userID int64) (models.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.managers {
		if m.UserID == userID {
			m.User = s.users[userID]
			if m.Company != nil {
				c := s.companies[m.Company.ID]
				m.Company = &c
			}
			return m, nil
		}
	}
	return models.Manager{}, storage.ErrNotFound
}

func (s *Store) ManagerUserID(_ context.Context, managerID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.managers[managerID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return m.UserID, nil
}

func (s *Store) UpsertCompany(_ context.Context, managerID int64, company models.Company) (models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.managers[managerID]
	if !ok {
		return models.Company{}, storage.ErrNotFound
	}
	if m.Company != nil {
		company.ID = m.Company.ID
	} else {
		company.ID = s.nextID()
	}
	s.companies[company.ID] = company
	m.Company = &company
	s.managers[managerID] = m
	return company, nil
}

// withTalent runs fn on a copy of the talent and stores the result.
func (s *Store) withTalent(talentID int64, fn func(*models.Talent) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.talents[talentID]
	if !ok {
		return storage.ErrNotFound
	}
	if err := fn(&t); err != nil {
		return err
	}
	s.talents[talentID] = t
	return nil
}

func (s *Store) AddSkill(_ context.Context, talentID int64, skill models.Skill) (models.Skill, error) {
	err := s.withTalent(talentID, func(t *models.Talent) error {
		skill.ID = s.nextID()
		t.Skills = append(t.Skills, skill)
		return nil
	})
	return skill, err
}

func (s *Store) DeleteSkill(_ context.Context, talentID, skillID int64) error {
	return s.withTalent(talentID, func(t *models.Talent) error {
		for i, sk := range t.Skills {
			if sk.ID == skillID {
				t.Skills = append(t.Skills[:i:i], t.Skills[i+1:]...)
				return nil
			}
		}
		return storage.ErrNotFound
	})
}

func (s *Store) AddDiploma(_ context.Context, talentID int64, diploma models.Diploma) (models.Diploma, error) {
	err := s.withTalent(talentID, func(t *models.Talent) error {
		diploma.ID = s.nextID()
		t.Diplomas = append(t.Diplomas, diploma)
		return nil
	})
	return diploma, err
}

func (s *Store) DeleteDiploma(_ context.Context, talentID, diplomaID int64) error {
	return s.withTalent(talentID, func(t *models.Talent) error {
		for i, d := range t.Diplomas {
			if d.ID == diplomaID {
				t.Diplomas = append(t.Diplomas[:i:i], t.Diplomas[i+1:]...)
				return nil
			}
		}
		return storage.ErrNotFound
	})
}

func (s *Store) AddExperience(_ context.Context, talentID int64, exp models.Experience) (models.Experience, error) {
	err := s.withTalent(talentID, func(t *models.Talent) error {
		exp.ID = s.nextID()
		t.Experiences = append(t.Experiences, exp)
		return nil
	})
	return exp, err
}

func (s *Store) DeleteExperience(_ context.Context, talentID, experienceID int64) error {
	return s.withTalent(talentID, func(t *models.Talent) error {
		for i, e := range t.Experiences {
			if e.ID == experienceID {
				t.Experiences = append(t.Experiences[:i:i], t.Experiences[i+1:]...)
				return nil
			}
		}
		return storage.ErrNotFound
	})
}

func (s *Store) ListCVs(_ context.Context, talentID int64) ([]models.CV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.talents[talentID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := append([]models.CV(nil), t.CVs...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) AddCV(_ context.Context, cv models.CV) (models.CV, error) {
	err := s.withTalent(cv.TalentID, func(t *models.Talent) error {
		cv.ID = s.nextID()
		cv.UploadedAt = s.now()
		t.CVs = append(t.CVs, cv)
		return nil
	})
	return cv, err
}

func (s *Store) DeleteCV(_ context.Context, talentID, cvID int64) (models.CV, error) {
	var removed models.CV
	err := s.withTalent(talentID, func(t *models.Talent) error {
		for i, cv := range t.CVs {
			if cv.ID == cvID {
				removed = cv
				t.CVs = append(t.CVs[:i:i], t.CVs[i+1:]...)
				return nil
			}
		}
		return storage.ErrNotFound
	})
	return removed, err
}
