package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jobmaroc/jobboard/internal/models"
)

const applicationSelect = `
	SELECT a.id, a.talent_id, a.offer_id, o.title, u.email, a.status, a.cover_letter_path, a.notes, a.cv_id,
		a.applied_at, a.updated_at
	FROM applications a
	JOIN offers o ON o.id = a.offer_id
	JOIN talents t ON t.id = a.talent_id
	JOIN users u ON u.id = t.user_id`

// CreateApplication records a talent's application. A second application to
// the same offer fails with storage.ErrAlreadyExists.
func (s *Store) CreateApplication(ctx context.Context, app models.Application) (models.Application, error) {
	if app.Status == "" {
		app.Status = models.ApplicationApplied
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO applications (talent_id, offer_id, status, cover_letter_path, notes, cv_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		app.TalentID, app.OfferID, app.Status, app.CoverLetterPath, app.Notes, app.CVID).Scan(&id)
	if err != nil {
		return models.Application{}, mapError(err)
	}
	return s.GetApplication(ctx, id)
}

func (s *Store) GetApplication(ctx context.Context, id int64) (models.Application, error) {
	return scanApplication(s.pool.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (s *Store) ListByTalent(ctx context.Context, talentID int64) ([]models.Application, error) {
	return s.queryApplications(ctx, applicationSelect+` WHERE a.talent_id = $1 ORDER BY a.id DESC`, talentID)
}

func (s *Store) ListByOffer(ctx context.Context, offerID int64) ([]models.Application, error) {
	return s.queryApplications(ctx, applicationSelect+` WHERE a.offer_id = $1 ORDER BY a.id DESC`, offerID)
}

// ListByManager returns applications to any offer the manager published.
func (s *Store) ListByManager(ctx context.Context, managerID int64) ([]models.Application, error) {
	return s.queryApplications(ctx, applicationSelect+` WHERE o.manager_id = $1 ORDER BY a.id DESC`, managerID)
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) (models.Application, error) {
	if err := s.execOne(ctx, `UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status); err != nil {
		return models.Application{}, err
	}
	return s.GetApplication(ctx, id)
}

func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	return s.execOne(ctx, `DELETE FROM applications WHERE id = $1`, id)
}

func (s *Store) queryApplications(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.ID, &a.TalentID, &a.OfferID, &a.OfferTitle, &a.TalentEmail, &a.Status,
		&a.CoverLetterPath, &a.Notes, &a.CVID, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return models.Application{}, mapError(err)
	}
	return a, nil
}
