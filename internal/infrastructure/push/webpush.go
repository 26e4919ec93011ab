package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"github.com/samyukta/registration-service/internal/application/notify"
	"github.com/samyukta/registration-service/internal/domain"
)

const defaultTTL = 24 * 60 * 60 // seconds

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subject         string
	TTL             int
	HTTPClient      *http.Client
}

// WebPushSender delivers encrypted Web Push messages signed with the VAPID key pair.
type WebPushSender struct {
	cfg Config
	lg  zerolog.Logger
}

func NewWebPushSender(cfg Config, lg zerolog.Logger) *WebPushSender {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebPushSender{cfg: cfg, lg: lg.With().Str("component", "webpush_sender").Logger()}
}

func (s *WebPushSender) PublicKey() string { return s.cfg.VAPIDPublicKey }

func (s *WebPushSender) Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Auth,
			P256dh: sub.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      s.cfg.HTTPClient,
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTL,
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		// encryption or transport failure before a status was returned
		return TemporaryError{msg: "push send failed: " + err.Error()}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		s.lg.Debug().Str("endpoint", sub.Endpoint).Int("status", resp.StatusCode).Msg("push subscription gone")
		return notify.ErrSubscriptionGone
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return TemporaryError{msg: fmt.Sprintf("push service returned %d", resp.StatusCode)}
	default:
		return PermanentError{msg: fmt.Sprintf("push service rejected message: %d", resp.StatusCode)}
	}
}

type TemporaryError struct{ msg string }

func (e TemporaryError) Error() string   { return e.msg }
func (e TemporaryError) Permanent() bool { return false }

type PermanentError struct{ msg string }

func (e PermanentError) Error() string   { return e.msg }
func (e PermanentError) Permanent() bool { return true }
