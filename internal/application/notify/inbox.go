package notify

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/samyukta/registration-service/internal/domain"
)

func (s *Service) Inbox(ctx context.Context, userID string) ([]domain.InboxItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrForbidden("login required")
	}
	return s.repo.Inbox(ctx, userID, inboxLimit)
}

func (s *Service) MarkRead(ctx context.Context, userID, itemID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrForbidden("login required")
	}
	return s.repo.MarkInboxRead(ctx, userID, itemID)
}

type SubscribeCmd struct {
	UserID   string
	Endpoint string
	P256dh   string
	Auth     string
}

// Subscribe stores a browser push subscription. Re-subscribing the same
// endpoint moves it to the new user.
func (s *Service) Subscribe(ctx context.Context, cmd SubscribeCmd) (*domain.PushSubscription, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return nil, domain.ErrForbidden("login required")
	}
	meta := map[string]string{}
	u, err := url.Parse(strings.TrimSpace(cmd.Endpoint))
	if err != nil || u.Scheme != "https" || u.Host == "" {
		meta["endpoint"] = "must be an https URL"
	}
	if strings.TrimSpace(cmd.P256dh) == "" {
		meta["keys.p256dh"] = "is required"
	}
	if strings.TrimSpace(cmd.Auth) == "" {
		meta["keys.auth"] = "is required"
	}
	if len(meta) > 0 {
		return nil, domain.ErrValidationMeta("invalid push subscription", meta)
	}

	sub := domain.PushSubscription{
		ID:       uuid.NewString(),
		UserID:   cmd.UserID,
		Endpoint: strings.TrimSpace(cmd.Endpoint),
		P256dh:   strings.TrimSpace(cmd.P256dh),
		Auth:     strings.TrimSpace(cmd.Auth),
	}
	if err := s.repo.SavePushSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
