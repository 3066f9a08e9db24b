package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jobmaroc/jobboard/internal/models"
)

// TalentByUser loads the talent profile with its skills, diplomas, experiences and CVs.
func (s *Store) TalentByUser(ctx context.Context, userID int64) (models.Talent, error) {
	t := models.Talent{UserID: userID}
	if err := s.pool.QueryRow(ctx, `SELECT id FROM talents WHERE user_id = $1`, userID).Scan(&t.ID); err != nil {
		return models.Talent{}, mapError(err)
	}
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return models.Talent{}, err
	}
	t.User = user

	rows, err := s.pool.Query(ctx, `SELECT id, name, level FROM talent_skills WHERE talent_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return models.Talent{}, err
	}
	if t.Skills, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Skill, error) {
		var sk models.Skill
		err := row.Scan(&sk.ID, &sk.Name, &sk.Level)
		return sk, err
	}); err != nil {
		return models.Talent{}, err
	}

	rows, err = s.pool.Query(ctx, `SELECT id, title, institution, obtained_at FROM talent_diplomas WHERE talent_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return models.Talent{}, err
	}
	if t.Diplomas, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Diploma, error) {
		var d models.Diploma
		err := row.Scan(&d.ID, &d.Title, &d.Institution, &d.ObtainedAt)
		return d, err
	}); err != nil {
		return models.Talent{}, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT id, title, company, description, start_date, end_date
		FROM talent_experiences WHERE talent_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return models.Talent{}, err
	}
	if t.Experiences, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Experience, error) {
		var e models.Experience
		err := row.Scan(&e.ID, &e.Title, &e.Company, &e.Description, &e.StartDate, &e.EndDate)
		return e, err
	}); err != nil {
		return models.Talent{}, err
	}

	if t.CVs, err = s.ListCVs(ctx, t.ID); err != nil {
		return models.Talent{}, err
	}
	return t, nil
}

func (s *Store) TalentUserID(ctx context.Context, talentID int64) (int64, error) {
	var userID int64
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM talents WHERE id = $1`, talentID).Scan(&userID)
	return userID, mapError(err)
}

// ManagerByUser loads the manager profile and its company, if any.
func (s *Store) ManagerByUser(ctx context.Context, userID int64) (models.Manager, error) {
	var (
		m         models.Manager
		companyID *int64
	)
	if err := s.pool.QueryRow(ctx, `SELECT id, user_id, company_id, created_at FROM managers WHERE user_id = $1`, userID).
		Scan(&m.ID, &m.UserID, &companyID, &m.CreatedAt); err != nil {
		return models.Manager{}, mapError(err)
	}
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return models.Manager{}, err
	}
	m.User = user
	if companyID != nil {
		c, err := s.company(ctx, *companyID)
		if err != nil {
			return models.Manager{}, err
		}
		m.Company = &c
	}
	return m, nil
}

func (s *Store) ManagerUserID(ctx context.Context, managerID int64) (int64, error) {
	var userID int64
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM managers WHERE id = $1`, managerID).Scan(&userID)
	return userID, mapError(err)
}

func (s *Store) company(ctx context.Context, id int64) (models.Company, error) {
	var c models.Company
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, email, website, description, logo, sector_activity
		FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Website, &c.Description, &c.Logo, &c.SectorActivity)
	return c, mapError(err)
}

// UpsertCompany updates the manager's company or creates and links one.
func (s *Store) UpsertCompany(ctx context.Context, managerID int64, company models.Company) (models.Company, error) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var companyID *int64
		if err := tx.QueryRow(ctx, `SELECT company_id FROM managers WHERE id = $1 FOR UPDATE`, managerID).Scan(&companyID); err != nil {
			return err
		}
		if companyID != nil {
			company.ID = *companyID
			_, err := tx.Exec(ctx, `
				UPDATE companies SET name = $2, address = $3, phone = $4, email = $5, website = $6,
					description = $7, logo = $8, sector_activity = $9
				WHERE id = $1`,
				company.ID, company.Name, company.Address, company.Phone, company.Email, company.Website,
				company.Description, company.Logo, company.SectorActivity)
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO companies (name, address, phone, email, website, description, logo, sector_activity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			company.Name, company.Address, company.Phone, company.Email, company.Website,
			company.Description, company.Logo, company.SectorActivity).Scan(&company.ID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE managers SET company_id = $2 WHERE id = $1`, managerID, company.ID)
		return err
	})
	if err != nil {
		return models.Company{}, mapError(err)
	}
	return company, nil
}

func (s *Store) AddSkill(ctx context.Context, talentID int64, skill models.Skill) (models.Skill, error) {
	err := s.pool.QueryRow(ctx, `INSERT INTO talent_skills (talent_id, name, level) VALUES ($1, $2, $3) RETURNING id`,
		talentID, skill.Name, skill.Level).Scan(&skill.ID)
	return skill, mapError(err)
}

func (s *Store) DeleteSkill(ctx context.Context, talentID, skillID int64) error {
	return s.execOne(ctx, `DELETE FROM talent_skills WHERE talent_id = $1 AND id = $2`, talentID, skillID)
}

func (s *Store) AddDiploma(ctx context.Context, talentID int64, diploma models.Diploma) (models.Diploma, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO talent_diplomas (talent_id, title, institution, obtained_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		talentID, diploma.Title, diploma.Institution, diploma.ObtainedAt).Scan(&diploma.ID)
	return diploma, mapError(err)
}

func (s *Store) DeleteDiploma(ctx context.Context, talentID, diplomaID int64) error {
	return s.execOne(ctx, `DELETE FROM talent_diplomas WHERE talent_id = $1 AND id = $2`, talentID, diplomaID)
}

func (s *Store) AddExperience(ctx context.Context, talentID int64, exp models.Experience) (models.Experience, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO talent_experiences (talent_id, title, company, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		talentID, exp.Title, exp.Company, exp.Description, exp.StartDate, exp.EndDate).Scan(&exp.ID)
	return exp, mapError(err)
}

func (s *Store) DeleteExperience(ctx context.Context, talentID, experienceID int64) error {
	return s.execOne(ctx, `DELETE FROM talent_experiences WHERE talent_id = $1 AND id = $2`, talentID, experienceID)
}

// ListCVs returns the talent's CVs, most recent first.
func (s *Store) ListCVs(ctx context.Context, talentID int64) ([]models.CV, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, talent_id, name, path, uploaded_at FROM talent_cvs WHERE talent_id = $1 ORDER BY id DESC`, talentID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CV, error) {
		var cv models.CV
		err := row.Scan(&cv.ID, &cv.TalentID, &cv.Name, &cv.Path, &cv.UploadedAt)
		return cv, err
	})
}

func (s *Store) AddCV(ctx context.Context, cv models.CV) (models.CV, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO talent_cvs (talent_id, name, path) VALUES ($1, $2, $3) RETURNING id, uploaded_at`,
		cv.TalentID, cv.Name, cv.Path).Scan(&cv.ID, &cv.UploadedAt)
	return cv, mapError(err)
}

// DeleteCV removes the record and returns it so the caller can drop the file.
func (s *Store) DeleteCV(ctx context.Context, talentID, cvID int64) (models.CV, error) {
	var cv models.CV
	err := s.pool.QueryRow(ctx, `
		DELETE FROM talent_cvs WHERE talent_id = $1 AND id = $2
		RETURNING id, talent_id, name, path, uploaded_at`, talentID, cvID).
		Scan(&cv.ID, &cv.TalentID, &cv.Name, &cv.Path, &cv.UploadedAt)
	return cv, mapError(err)
}
