package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
)

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.phone, u.role, u.status, u.address,
	u.nationality, u.city, u.birth_date, u.image_path, u.password_hash, u.registration_date, u.last_login_date`

// CreateUser inserts the account and its role profile in one transaction.
func (s *Store) CreateUser(ctx context.Context, user models.User, company *models.Company) (models.User, error) {
	var created models.User
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		const insert = `
		INSERT INTO users AS u (email, first_name, last_name, phone, role, status, address, nationality, city, birth_date, image_path, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns
		status := user.Status
		if status == "" {
			status = models.StatusWaiting
		}
		row := tx.QueryRow(ctx, insert, strings.TrimSpace(user.Email), user.FirstName, user.LastName, user.Phone,
			user.Role, status, user.Address, user.Nationality, user.City, user.BirthDate, user.ImagePath, user.PasswordHash)
		var err error
		if created, err = scanUser(row); err != nil {
			return err
		}

		switch user.Role {
		case session.RoleTalent:
			_, err = tx.Exec(ctx, `INSERT INTO talents (user_id) VALUES ($1)`, created.ID)
		case session.RoleManager:
			var companyID *int64
			if company != nil {
				var id int64
				if err := tx.QueryRow(ctx, `
					INSERT INTO companies (name, address, phone, email, website, description, logo, sector_activity)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
					company.Name, company.Address, company.Phone, company.Email, company.Website,
					company.Description, company.Logo, company.SectorActivity).Scan(&id); err != nil {
					return err
				}
				companyID = &id
			}
			_, err = tx.Exec(ctx, `INSERT INTO managers (user_id, company_id) VALUES ($1, $2)`, created.ID, companyID)
		}
		return err
	})
	if err != nil {
		return models.User{}, mapError(err)
	}
	return created, nil
}

// FindByEmail fetches a user by email address, ignoring case.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE lower(u.email) = lower($1)`
	return scanUser(s.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// ListUsers returns users matching filter ordered by id.
func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u
		WHERE ($1 = '' OR u.role = $1) AND ($2 = '' OR u.status = $2)
		ORDER BY u.id`
	rows, err := s.pool.Query(ctx, query, string(filter.Role), string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateUser writes the editable profile fields.
func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `UPDATE users u SET first_name = $2, last_name = $3, phone = $4, address = $5,
		nationality = $6, city = $7, image_path = $8
		WHERE u.id = $1 RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, user.ID, user.FirstName, user.LastName, user.Phone,
		user.Address, user.Nationality, user.City, user.ImagePath))
}

// UpdateStatus records an approval decision.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status models.AcceptanceStatus) (models.User, error) {
	query := `UPDATE users u SET status = $2 WHERE u.id = $1 RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, id, status))
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return s.execOne(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (s *Store) TouchLastLogin(ctx context.Context, id int64) error {
	return s.execOne(ctx, `UPDATE users SET last_login_date = NOW() WHERE id = $1`, id)
}

// DeleteUser removes the account; profiles, applications and notifications cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone, &user.Role, &user.Status,
		&user.Address, &user.Nationality, &user.City, &user.BirthDate, &user.ImagePath, &user.PasswordHash,
		&user.RegistrationDate, &user.LastLoginDate); err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}
