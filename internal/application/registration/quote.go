package registration

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/metrics"
)

type Quote struct {
	Price               domain.PriceBreakdown
	DirectJoinAvailable bool
	PitchModeEnabled    bool
	// DirectJoin holds one option per competition track while direct join is open.
	DirectJoin map[domain.CompetitionTrack]domain.PriceBreakdown
}

// Quote prices a prospective team. Slot state only decorates the answer:
// if it cannot be read the plain price is still returned.
func (s *Service) Quote(ctx context.Context, req domain.PricingRequest) (*Quote, error) {
	price, err := domain.ComputePrice(req, s.prices)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuote(string(req.TicketKind))

	q := &Quote{Price: price}
	if s.slots == nil {
		return q, nil
	}
	snap, err := s.slots.Snapshot(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("quote without slot state")
		return q, nil
	}

	q.DirectJoinAvailable = snap.DirectJoinAvailable
	q.PitchModeEnabled = snap.PitchModeEnabled
	if snap.DirectJoinAvailable {
		q.DirectJoin = map[domain.CompetitionTrack]domain.PriceBreakdown{}
		for _, tr := range []domain.CompetitionTrack{domain.TrackHackathon, domain.TrackStartupPitch} {
			b, err := domain.ComputeDirectJoinPrice(tr, req.TeamSize, snap)
			if err != nil {
				return nil, err
			}
			q.DirectJoin[tr] = b
		}
	}
	return q, nil
}
