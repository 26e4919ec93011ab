package capacity

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/metrics"
)

type Service struct {
	store  Store
	limits domain.CapacityLimits
}

func New(store Store, limits domain.CapacityLimits) *Service {
	return &Service{store: store, limits: limits}
}

func (s *Service) Limits() domain.CapacityLimits { return s.limits }

// Snapshot always reads fresh counts; slot availability is never cached.
func (s *Service) Snapshot(ctx context.Context) (domain.CapacitySnapshot, error) {
	counts, err := s.store.RegistrationCounts(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("load registration counts failed")
		return domain.CapacitySnapshot{}, domain.ErrUnavailable("slot availability is temporarily unavailable")
	}
	snap := domain.ComputeSnapshot(counts, s.limits)
	for _, c := range domain.Categories {
		metrics.SetRegistered(string(c), snap.Status(c).Registered)
	}
	return snap, nil
}

type Stats struct {
	Snapshot         domain.CapacitySnapshot `json:"snapshot"`
	ByStatus         []StatusTotal           `json:"by_status"`
	ExpectedRevenue  int                     `json:"expected_revenue"`
	ConfirmedRevenue int                     `json:"confirmed_revenue"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	totals, err := s.store.StatusTotals(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Snapshot: snap, ByStatus: totals}
	for _, t := range totals {
		switch t.Status {
		case domain.StatusConfirmed:
			st.ConfirmedRevenue += t.Amount
			st.ExpectedRevenue += t.Amount
		case domain.StatusPending:
			st.ExpectedRevenue += t.Amount
		}
	}
	return st, nil
}
