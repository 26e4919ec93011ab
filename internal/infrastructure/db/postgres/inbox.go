package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/samyukta/registration-service/internal/domain"
)

// InsertInboxItem is a no-op when the user already holds this notification.
func (r *Repo) InsertInboxItem(ctx context.Context, it domain.InboxItem) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO inbox_items (id, user_id, notification_id, title, message, url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (notification_id, user_id) DO NOTHING`,
		it.ID, it.UserID, it.NotificationID, it.Title, it.Message, it.URL, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inbox item: %w", err)
	}
	return nil
}

func (r *Repo) Inbox(ctx context.Context, userID string, limit int) ([]domain.InboxItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, notification_id, title, message, url, read_at, created_at
FROM inbox_items
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.InboxItem{}
	for rows.Next() {
		var (
			it     domain.InboxItem
			readAt sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.NotificationID, &it.Title, &it.Message, &it.URL, &readAt, &it.CreatedAt); err != nil {
			return nil, err
		}
		it.Read = readAt.Valid
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) MarkInboxRead(ctx context.Context, userID, itemID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inbox_items SET read_at = COALESCE(read_at, $3) WHERE id = $1 AND user_id = $2`,
		itemID, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark inbox read: %w", err)
	}
	return requireOneRow(res, "inbox item not found")
}
