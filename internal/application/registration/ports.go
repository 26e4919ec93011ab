package registration

import (
	"context"
	"time"

	"github.com/samyukta/registration-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type Repo interface {
	// WithTx runs fn in one transaction; the capacity check and the insert
	// must see the same counts.
	WithTx(ctx context.Context, fn func(tx TxRepo) error) error

	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Registration, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Registration, int, error)
	UpdateStatus(ctx context.Context, r *domain.Registration) error
	SetPitchDeck(ctx context.Context, id, key string, now time.Time) error
}

type TxRepo interface {
	// LockCapacity serialises registrations so two teams cannot take the last seat.
	LockCapacity(ctx context.Context) error
	RegistrationCounts(ctx context.Context) (domain.RegistrationCounts, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, r *domain.Registration) error
}

type Snapshotter interface {
	Snapshot(ctx context.Context) (domain.CapacitySnapshot, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, size int64) (PresignedUpload, error)
}

type PresignedUpload struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}
