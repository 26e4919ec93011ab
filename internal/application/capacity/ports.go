package capacity

import (
	"context"

	"github.com/samyukta/registration-service/internal/domain"
)

// Store aggregates live counts. Rejected registrations never count.
type Store interface {
	RegistrationCounts(ctx context.Context) (domain.RegistrationCounts, error)
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
}

// StatusTotal is one row of the admin breakdown.
type StatusTotal struct {
	Status       domain.RegistrationStatus `json:"status"`
	Teams        int                       `json:"teams"`
	Participants int                       `json:"participants"`
	Amount       int                       `json:"amount"`
}
