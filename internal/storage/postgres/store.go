package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobmaroc/jobboard/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for the job board.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			id BIGINT PRIMARY KEY,
			role_name TEXT UNIQUE NOT NULL
		);`,
		`INSERT INTO roles (id, role_name) VALUES (1, 'ADMIN'), (2, 'MANAGER'), (3, 'TALENT') ON CONFLICT (id) DO UPDATE SET role_name = EXCLUDED.role_name;`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL REFERENCES roles(role_name),
			status TEXT NOT NULL DEFAULT 'WAITING',
			address TEXT NOT NULL DEFAULT '',
			nationality TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			birth_date DATE,
			image_path TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			registration_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_date TIMESTAMPTZ
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email));`,
		`CREATE TABLE IF NOT EXISTS companies (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			logo TEXT NOT NULL DEFAULT '',
			sector_activity TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS managers (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			company_id BIGINT REFERENCES companies(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS talents (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS contract_types (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		);`,
		`INSERT INTO contract_types (name) VALUES ('CDI'), ('CDD'), ('Stage'), ('Freelance'), ('Intérim') ON CONFLICT (name) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS offers (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			basic_salary DOUBLE PRECISION,
			date_publication DATE,
			date_expiration DATE,
			company_name TEXT NOT NULL DEFAULT '',
			sector_activity TEXT NOT NULL DEFAULT '',
			study_level TEXT NOT NULL DEFAULT '',
			experience TEXT NOT NULL DEFAULT '',
			languages JSONB NOT NULL DEFAULT '[]',
			skills TEXT[] NOT NULL DEFAULT '{}',
			modality TEXT NOT NULL DEFAULT 'OnSite',
			status TEXT NOT NULL DEFAULT 'OPEN',
			flexible_hours BOOLEAN NOT NULL DEFAULT FALSE,
			offer_url TEXT NOT NULL DEFAULT '',
			manager_id BIGINT REFERENCES managers(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS offers_manager_idx ON offers (manager_id);`,
		`CREATE TABLE IF NOT EXISTS offer_contract_types (
			offer_id BIGINT NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
			contract_type_id BIGINT NOT NULL REFERENCES contract_types(id),
			PRIMARY KEY (offer_id, contract_type_id)
		);`,
		`CREATE TABLE IF NOT EXISTS talent_skills (
			id BIGSERIAL PRIMARY KEY,
			talent_id BIGINT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS talent_diplomas (
			id BIGSERIAL PRIMARY KEY,
			talent_id BIGINT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			institution TEXT NOT NULL DEFAULT '',
			obtained_at DATE
		);`,
		`CREATE TABLE IF NOT EXISTS talent_experiences (
			id BIGSERIAL PRIMARY KEY,
			talent_id BIGINT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			start_date DATE,
			end_date DATE
		);`,
		`CREATE TABLE IF NOT EXISTS talent_cvs (
			id BIGSERIAL PRIMARY KEY,
			talent_id BIGINT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS applications (
			id BIGSERIAL PRIMARY KEY,
			talent_id BIGINT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			offer_id BIGINT NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'APPLIED',
			cover_letter_path TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			cv_id BIGINT REFERENCES talent_cvs(id) ON DELETE SET NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (talent_id, offer_id)
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS notifications_recipient_idx ON notifications (recipient_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// mapError converts driver errors into storage sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return storage.ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, storage.ErrNotFound)
		}
	}
	return err
}

// execOne runs a statement that must affect exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
