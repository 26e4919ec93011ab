package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/metrics"
)

const inboxLimit = 50

type Service struct {
	lg    zerolog.Logger
	repo  Repo
	email EmailSender
	push  PushSender
	idem  IdempotencyStore
	clock Clock

	idemTTL time.Duration
}

// New wires the fan-out. email, push and idem may be nil: the channel is
// then skipped or delivery simply is not deduplicated.
func New(repo Repo, email EmailSender, push PushSender, idem IdempotencyStore, clock Clock, idemTTL time.Duration, lg zerolog.Logger) *Service {
	if idemTTL <= 0 {
		idemTTL = 72 * time.Hour
	}
	return &Service{
		lg:      lg.With().Str("component", "notify").Logger(),
		repo:    repo,
		email:   email,
		push:    push,
		idem:    idem,
		clock:   clock,
		idemTTL: idemTTL,
	}
}

func isAdmin(role string) bool { return role == "admin" }

type CreateCmd struct {
	ActorID   string
	ActorRole string

	Title    string
	Message  string
	URL      string
	Channels []domain.Channel
	Audience domain.Audience
	UserIDs  []string
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Notification, error) {
	if !isAdmin(cmd.ActorRole) {
		return nil, domain.ErrForbidden("admin only")
	}
	n, err := domain.NewNotification(cmd.ActorID, cmd.Title, cmd.Message, cmd.URL, cmd.Channels, cmd.Audience, cmd.UserIDs, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if n.URL != "" {
		if u, err := url.Parse(n.URL); err != nil || (u.Scheme != "https" && u.Scheme != "http" && !strings.HasPrefix(n.URL, "/")) {
			return nil, domain.ErrValidationMeta("invalid url", map[string]string{"url": "must be an http(s) URL or an absolute path"})
		}
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, actorRole string, page, pageSize int) ([]*domain.Notification, int, error) {
	if !isAdmin(actorRole) {
		return nil, 0, domain.ErrForbidden("admin only")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListNotifications(ctx, page, pageSize)
}

type pushPayload struct {
	NotificationID string `json:"notification_id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	URL            string `json:"url,omitempty"`
}

// Send runs one sequential pass over every recipient and channel. A failed
// delivery is recorded in the report and the pass moves on. Deliveries that
// already succeeded in an earlier, interrupted pass are skipped.
func (s *Service) Send(ctx context.Context, id, actorRole string) (*domain.Notification, error) {
	if !isAdmin(actorRole) {
		return nil, domain.ErrForbidden("admin only")
	}
	n, err := s.repo.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status == domain.NotificationSent {
		return nil, domain.ErrInvalidState("notification already sent")
	}

	recipients, err := s.repo.Recipients(ctx, n.Audience, n.UserIDs)
	if err != nil {
		return nil, err
	}

	started := s.clock.Now()
	payload, err := json.Marshal(pushPayload{NotificationID: n.ID, Title: n.Title, Body: n.Message, URL: n.URL})
	if err != nil {
		return nil, err
	}

	report := domain.NewDeliveryReport(len(recipients), n.Channels)
	for _, rc := range recipients {
		if err := ctx.Err(); err != nil {
			s.lg.Warn().Err(err).Str("notification_id", n.ID).Msg("send pass interrupted")
			return nil, err
		}
		for _, ch := range n.Channels {
			key := deliveryKey(n.ID, ch, rc.UserID)
			if s.delivered(ctx, key) {
				report.Skipped(ch)
				continue
			}

			sent, err := s.deliver(ctx, n, rc, ch, payload)
			switch {
			case err != nil:
				s.lg.Warn().Err(err).
					Str("notification_id", n.ID).
					Str("channel", string(ch)).
					Str("user_id", rc.UserID).
					Msg("delivery failed")
				report.Failed(ch, rc.UserID, err)
			case !sent:
				report.Skipped(ch)
			default:
				report.Sent(ch)
				s.markDelivered(ctx, key)
			}
		}
	}

	n.MarkSent(report, s.clock.Now())
	if err := s.repo.MarkNotificationSent(ctx, n); err != nil {
		return nil, err
	}

	for ch, st := range report.Channels {
		metrics.RecordDelivery(string(ch), "sent", st.Sent)
		metrics.RecordDelivery(string(ch), "failed", st.Failed)
		metrics.RecordDelivery(string(ch), "skipped", st.Skipped)
	}
	metrics.RecordNotificationSend(string(n.Audience), s.clock.Now().Sub(started))

	s.lg.Info().
		Str("notification_id", n.ID).
		Int("recipients", report.Recipients).
		Int("failures", len(report.Failures)).
		Msg("notification sent")
	return n, nil
}

// deliver reports sent=false when the recipient has nothing to deliver to.
func (s *Service) deliver(ctx context.Context, n *domain.Notification, rc domain.Recipient, ch domain.Channel, payload []byte) (bool, error) {
	switch ch {
	case domain.ChannelInApp:
		err := s.repo.InsertInboxItem(ctx, domain.InboxItem{
			ID:             uuid.NewString(),
			UserID:         rc.UserID,
			NotificationID: n.ID,
			Title:          n.Title,
			Message:        n.Message,
			URL:            n.URL,
			CreatedAt:      s.clock.Now().UTC(),
		})
		return err == nil, err

	case domain.ChannelEmail:
		if s.email == nil || strings.TrimSpace(rc.Email) == "" {
			return false, nil
		}
		err := s.email.SendNotification(ctx, rc.Email, n.Title, n.Message, n.URL)
		return err == nil, err

	case domain.ChannelPush:
		if s.push == nil {
			return false, nil
		}
		return s.deliverPush(ctx, rc.UserID, payload)
	}
	return false, fmt.Errorf("unknown channel %q", ch)
}

// deliverPush sends to every device of the user and prunes dead endpoints.
// The recipient counts as reached if any device accepted the message.
func (s *Service) deliverPush(ctx context.Context, userID string, payload []byte) (bool, error) {
	subs, err := s.repo.PushSubscriptions(ctx, userID)
	if err != nil {
		return false, err
	}
	var (
		reached  bool
		firstErr error
	)
	for _, sub := range subs {
		err := s.push.Send(ctx, sub, payload)
		if errors.Is(err, ErrSubscriptionGone) {
			if derr := s.repo.DeletePushSubscription(ctx, sub.Endpoint); derr != nil {
				s.lg.Warn().Err(derr).Str("user_id", userID).Msg("prune push subscription failed")
			}
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reached = true
	}
	if reached {
		return true, nil
	}
	return false, firstErr
}

func deliveryKey(notificationID string, ch domain.Channel, userID string) string {
	return fmt.Sprintf("notify:%s:%s:%s", notificationID, ch, userID)
}

// Idempotency is best effort; a Redis outage must not block delivery.
func (s *Service) delivered(ctx context.Context, key string) bool {
	if s.idem == nil {
		return false
	}
	seen, err := s.idem.Seen(ctx, key)
	if err != nil {
		s.lg.Warn().Err(err).Str("key", key).Msg("idempotency check failed")
		return false
	}
	return seen
}

func (s *Service) markDelivered(ctx context.Context, key string) {
	if s.idem == nil {
		return
	}
	if err := s.idem.MarkSent(ctx, key, s.idemTTL); err != nil {
		s.lg.Warn().Err(err).Str("key", key).Msg("idempotency mark failed")
	}
}
