package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/storage"
)

func (s *Store) Notify(ctx context.Context, n models.Notification) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO notifications (recipient_id, type, message) VALUES ($1, $2, $3)`,
		n.RecipientID, n.Type, n.Message)
	return mapError(err)
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipient_id, type, message, read, created_at
		FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC, id DESC`, recipientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Notification, error) {
		var n models.Notification
		err := row.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message, &n.Read, &n.CreatedAt)
		return n, err
	})
}

func (s *Store) MarkAllRead(ctx context.Context, recipientID int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND NOT read`, recipientID)
	return err
}

func (s *Store) CountOffers(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM offers`).Scan(&n)
	return n, err
}

func (s *Store) CountApplications(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n)
	return n, err
}

func (s *Store) CountUsers(ctx context.Context, filter storage.UserFilter) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE ($1 = '' OR role = $1) AND ($2 = '' OR status = $2)`,
		string(filter.Role), string(filter.Status)).Scan(&n)
	return n, err
}

// OffersGroupedBy counts offers per non-empty column value, largest first.
// A limit of zero returns every bucket.
func (s *Store) OffersGroupedBy(ctx context.Context, field storage.GroupField, limit int) ([]models.CountBy, error) {
	switch field {
	case storage.GroupSector, storage.GroupModality, storage.GroupStudyLevel, storage.GroupRegion:
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	column := string(field)
	query := fmt.Sprintf(`
		SELECT TRIM(%[1]s) AS label, COUNT(*) AS total FROM offers
		WHERE TRIM(%[1]s) <> ''
		GROUP BY TRIM(%[1]s)
		ORDER BY total DESC, label`, column)
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CountBy, error) {
		var c models.CountBy
		err := row.Scan(&c.Label, &c.Count)
		return c, err
	})
}
