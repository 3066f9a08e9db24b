package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jobmaroc/jobboard/internal/models"
)

const offerColumns = `o.id, o.title, o.description, o.location, o.basic_salary, o.date_publication, o.date_expiration,
	o.company_name, o.sector_activity, o.study_level, o.experience, o.languages, o.skills, o.modality, o.status,
	o.flexible_hours, o.offer_url, o.manager_id, o.created_at, o.updated_at,
	COALESCE((
		SELECT json_agg(json_build_object('id', ct.id, 'typeName', ct.name) ORDER BY ct.id)
		FROM offer_contract_types oct JOIN contract_types ct ON ct.id = oct.contract_type_id
		WHERE oct.offer_id = o.id
	), '[]'::json)`

// ListOffers returns every offer, newest first.
func (s *Store) ListOffers(ctx context.Context) ([]models.Offer, error) {
	return s.queryOffers(ctx, `SELECT `+offerColumns+` FROM offers o ORDER BY o.id DESC`)
}

func (s *Store) ListOffersByManager(ctx context.Context, managerID int64) ([]models.Offer, error) {
	return s.queryOffers(ctx, `SELECT `+offerColumns+` FROM offers o WHERE o.manager_id = $1 ORDER BY o.id DESC`, managerID)
}

func (s *Store) GetOffer(ctx context.Context, id int64) (models.Offer, error) {
	return scanOffer(s.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers o WHERE o.id = $1`, id))
}

// CreateOffer inserts the offer and links its contract types.
func (s *Store) CreateOffer(ctx context.Context, offer models.Offer, contractTypeIDs []int64) (models.Offer, error) {
	normalizeOffer(&offer)
	var id int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO offers (title, description, location, basic_salary, date_publication, date_expiration,
				company_name, sector_activity, study_level, experience, languages, skills, modality, status,
				flexible_hours, offer_url, manager_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			RETURNING id`,
			offer.Title, offer.Description, offer.Location, offer.BasicSalary, offer.DatePublication, offer.DateExpiration,
			offer.CompanyName, offer.SectorActivity, offer.StudyLevel, offer.Experience, offer.Languages, offer.Skills,
			offer.Modality, offer.Status, offer.FlexibleHours, offer.URL, offer.ManagerID).Scan(&id); err != nil {
			return err
		}
		return linkContractTypes(ctx, tx, id, contractTypeIDs)
	})
	if err != nil {
		return models.Offer{}, mapError(err)
	}
	return s.GetOffer(ctx, id)
}

// UpdateOffer rewrites the offer fields and replaces its contract types.
// The owning manager is never changed.
func (s *Store) UpdateOffer(ctx context.Context, offer models.Offer, contractTypeIDs []int64) (models.Offer, error) {
	normalizeOffer(&offer)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE offers SET title = $2, description = $3, location = $4, basic_salary = $5, date_publication = $6,
				date_expiration = $7, company_name = $8, sector_activity = $9, study_level = $10, experience = $11,
				languages = $12, skills = $13, modality = $14, status = $15, flexible_hours = $16, offer_url = $17,
				updated_at = NOW()
			WHERE id = $1`,
			offer.ID, offer.Title, offer.Description, offer.Location, offer.BasicSalary, offer.DatePublication,
			offer.DateExpiration, offer.CompanyName, offer.SectorActivity, offer.StudyLevel, offer.Experience,
			offer.Languages, offer.Skills, offer.Modality, offer.Status, offer.FlexibleHours, offer.URL)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, `DELETE FROM offer_contract_types WHERE offer_id = $1`, offer.ID); err != nil {
			return err
		}
		return linkContractTypes(ctx, tx, offer.ID, contractTypeIDs)
	})
	if err != nil {
		return models.Offer{}, mapError(err)
	}
	return s.GetOffer(ctx, offer.ID)
}

// DeleteOffer removes the offer; its applications cascade.
func (s *Store) DeleteOffer(ctx context.Context, id int64) error {
	return s.execOne(ctx, `DELETE FROM offers WHERE id = $1`, id)
}

func (s *Store) ListContractTypes(ctx context.Context) ([]models.ContractType, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM contract_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ContractType, error) {
		var ct models.ContractType
		err := row.Scan(&ct.ID, &ct.Name)
		return ct, err
	})
}

func linkContractTypes(ctx context.Context, tx pgx.Tx, offerID int64, ids []int64) error {
	for _, ctID := range ids {
		if _, err := tx.Exec(ctx, `
			INSERT INTO offer_contract_types (offer_id, contract_type_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, offerID, ctID); err != nil {
			return err
		}
	}
	return nil
}

// normalizeOffer keeps NOT NULL array columns from receiving SQL NULL.
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

func (s *Store) queryOffers(ctx context.Context, query string, args ...any) ([]models.Offer, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOffer(row pgx.Row) (models.Offer, error) {
	var o models.Offer
	if err := row.Scan(&o.ID, &o.Title, &o.Description, &o.Location, &o.BasicSalary, &o.DatePublication,
		&o.DateExpiration, &o.CompanyName, &o.SectorActivity, &o.StudyLevel, &o.Experience, &o.Languages,
		&o.Skills, &o.Modality, &o.Status, &o.FlexibleHours, &o.URL, &o.ManagerID, &o.CreatedAt, &o.UpdatedAt,
		&o.ContractTypes); err != nil {
		return models.Offer{}, mapError(err)
	}
	return o, nil
}
