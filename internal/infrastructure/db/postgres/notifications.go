package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/samyukta/registration-service/internal/domain"
)

func (r *Repo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	report, err := encodeReport(n.Report)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertNotificationSQL,
		n.ID, n.Title, n.Message, n.URL, pq.Array(channelStrings(n.Channels)), string(n.Audience),
		pq.Array(nonNil(n.UserIDs)), string(n.Status), n.CreatedBy, n.CreatedAt, n.SentAt, report,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *Repo) GetNotification(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, notificationColumns+`WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("notification not found")
	}
	return n, err
}

func (r *Repo) ListNotifications(ctx context.Context, page, pageSize int) ([]*domain.Notification, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, notificationColumns+`
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) MarkNotificationSent(ctx context.Context, n *domain.Notification) error {
	report, err := encodeReport(n.Report)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET status=$2, sent_at=$3, report=$4 WHERE id=$1`,
		n.ID, string(n.Status), n.SentAt, report,
	)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return requireOneRow(res, "notification not found")
}

func scanNotification(s rowScanner) (*domain.Notification, error) {
	var (
		n                 domain.Notification
		channels, userIDs pq.StringArray
		audience, status  string
		report            []byte
	)
	if err := s.Scan(
		&n.ID, &n.Title, &n.Message, &n.URL, &channels, &audience, &userIDs,
		&status, &n.CreatedBy, &n.CreatedAt, &n.SentAt, &report,
	); err != nil {
		return nil, err
	}
	for _, c := range channels {
		n.Channels = append(n.Channels, domain.Channel(c))
	}
	n.UserIDs = []string(userIDs)
	n.Audience = domain.Audience(audience)
	n.Status = domain.NotificationStatus(status)
	if len(report) > 0 {
		var rep domain.DeliveryReport
		if err := json.Unmarshal(report, &rep); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		n.Report = &rep
	}
	return &n, nil
}

// Recipients resolves an audience to user ids with a contact address.
// Participants are reached through their team leader's details.
func (r *Repo) Recipients(ctx context.Context, audience domain.Audience, userIDs []string) ([]domain.Recipient, error) {
	var (
		query string
		args  []any
	)
	switch audience {
	case domain.AudienceAll:
		query = `SELECT id, name, email FROM users ORDER BY id`
	case domain.AudienceAdmins:
		query = `SELECT id, name, email FROM users WHERE role = 'admin' ORDER BY id`
	case domain.AudienceUsers:
		query = `SELECT id, name, email FROM users WHERE id = ANY($1) ORDER BY id`
		args = append(args, pq.Array(userIDs))
	case domain.AudienceParticipants:
		query = `
SELECT DISTINCT ON (r.user_id) r.user_id, m.name, m.email
FROM registrations r
JOIN registration_members m ON m.registration_id = r.id AND m.position = 0
WHERE r.status <> 'rejected'
ORDER BY r.user_id, r.created_at DESC`
	default:
		return nil, domain.ErrValidation("unknown audience")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		var rc domain.Recipient
		if err := rows.Scan(&rc.UserID, &rc.Name, &rc.Email); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// jsonb parameters go over the wire as text; lib/pq would send []byte as bytea.
func encodeReport(rep *domain.DeliveryReport) (any, error) {
	if rep == nil {
		return nil, nil
	}
	b, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func channelStrings(cs []domain.Channel) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
