package notify

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/samyukta/registration-service/internal/domain"
)

func newBreaker(name string) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isPermanent(err)
		},
	})
}

// GuardedEmail stops hammering the SMTP relay once it keeps failing.
type GuardedEmail struct {
	next EmailSender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func GuardEmail(next EmailSender) *GuardedEmail {
	return &GuardedEmail{next: next, cb: newBreaker("email")}
}

func (g *GuardedEmail) SendNotification(ctx context.Context, to, subject, text, link string) error {
	_, err := g.cb.Execute(func() (struct{}, error) {
		return struct{}{}, g.next.SendNotification(ctx, to, subject, text, link)
	})
	return err
}

type GuardedPush struct {
	next PushSender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func GuardPush(next PushSender) *GuardedPush {
	return &GuardedPush{next: next, cb: newBreaker("push")}
}

func (g *GuardedPush) Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error {
	_, err := g.cb.Execute(func() (struct{}, error) {
		return struct{}{}, g.next.Send(ctx, sub, payload)
	})
	return err
}
