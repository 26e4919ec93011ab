package notify

import (
	"context"
	"errors"
	"time"

	"github.com/samyukta/registration-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type Repo interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	GetNotification(ctx context.Context, id string) (*domain.Notification, error)
	ListNotifications(ctx context.Context, page, pageSize int) ([]*domain.Notification, int, error)
	MarkNotificationSent(ctx context.Context, n *domain.Notification) error

	Recipients(ctx context.Context, audience domain.Audience, userIDs []string) ([]domain.Recipient, error)

	InsertInboxItem(ctx context.Context, item domain.InboxItem) error
	Inbox(ctx context.Context, userID string, limit int) ([]domain.InboxItem, error)
	MarkInboxRead(ctx context.Context, userID, itemID string) error

	SavePushSubscription(ctx context.Context, sub domain.PushSubscription) error
	PushSubscriptions(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

type EmailSender interface {
	SendNotification(ctx context.Context, to, subject, text, link string) error
}

type PushSender interface {
	Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error
}

// IdempotencyStore remembers (notification, channel, recipient) deliveries.
type IdempotencyStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkSent(ctx context.Context, key string, ttl time.Duration) error
}

// ErrSubscriptionGone is returned by a PushSender when the push service no
// longer knows the endpoint (HTTP 404 or 410).
var ErrSubscriptionGone = errors.New("push subscription gone")

// permanent errors are not worth retrying and do not count against a breaker.
func isPermanent(err error) bool {
	if errors.Is(err, ErrSubscriptionGone) {
		return true
	}
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}
