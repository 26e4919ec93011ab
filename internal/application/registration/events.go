package registration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	reqctx "github.com/samyukta/registration-service/internal/pkg/context"
)

const (
	EventVersion  = 1
	EventProducer = "registration-service"

	RKRegistrationCreated       = "registration.created"
	RKRegistrationStatusChanged = "registration.status_changed"
)

// DomainEventEnvelope is the contract for every message on the events exchange.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

type RegistrationCreatedPayload struct {
	RegistrationID string `json:"registration_id"`
	UserID         string `json:"user_id"`
	TeamName       string `json:"team_name"`
	TicketKind     string `json:"ticket_kind"`
	TeamSize       int    `json:"team_size"`
	Total          int    `json:"total"`
	LeaderEmail    string `json:"leader_email"`
}

type RegistrationStatusChangedPayload struct {
	RegistrationID string `json:"registration_id"`
	UserID         string `json:"user_id"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	ReviewedBy     string `json:"reviewed_by"`
}

// publish is best-effort: the registration is already committed.
func publish[T any](ctx context.Context, pub EventPublisher, rk string, now time.Time, payload T) {
	env := DomainEventEnvelope[T]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  uuid.NewString(),
		TraceID:    reqctx.GetRequestID(ctx),
		OccurredAt: now.UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		zlog.Error().Err(err).Str("rk", rk).Msg("marshal domain event failed")
		return
	}
	if err := pub.PublishEvent(ctx, rk, env.MessageID, body); err != nil {
		zlog.Error().Err(err).Str("rk", rk).Str("message_id", env.MessageID).Msg("publish domain event failed")
	}
}
