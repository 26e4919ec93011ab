package registration

import (
	"context"
	"errors"

	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/metrics"
)

type RegisterCmd struct {
	ActorID string

	TeamName         string
	TicketKind       domain.TicketKind
	SelectionMode    domain.SelectionMode
	Members          []domain.Member
	PitchGroups      map[int]domain.PitchGroup
	PaymentReference string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCmd) (*domain.Registration, error) {
	if cmd.ActorID == "" {
		return nil, domain.ErrForbidden("login required")
	}
	now := s.clock.Now()

	r, err := domain.NewRegistration(cmd.ActorID, cmd.TeamName, cmd.TicketKind, cmd.SelectionMode, cmd.Members, cmd.PitchGroups, cmd.PaymentReference, now)
	if err != nil {
		metrics.RecordRegistration(string(cmd.TicketKind), "invalid")
		return nil, err
	}
	price, err := domain.ComputePrice(r.PricingRequest(), s.prices)
	if err != nil {
		metrics.RecordRegistration(string(cmd.TicketKind), "invalid")
		return nil, err
	}
	r.Price = price

	err = s.repo.WithTx(ctx, func(tx TxRepo) error {
		if err := tx.LockCapacity(ctx); err != nil {
			return err
		}
		exists, err := tx.ExistsForUser(ctx, r.UserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrConflict("you already have an active registration")
		}
		counts, err := tx.RegistrationCounts(ctx)
		if err != nil {
			return err
		}
		if err := r.CheckCapacity(domain.ComputeSnapshot(counts, s.limits)); err != nil {
			return err
		}
		return tx.Create(ctx, r)
	})
	if err != nil {
		var ae *domain.AppError
		if errors.As(err, &ae) {
			if ae.Code == domain.CodeCapacityClosed {
				metrics.RecordCapacityRejection(ae.Meta["category"])
			}
			metrics.RecordRegistration(string(r.TicketKind), string(ae.Code))
			return nil, err
		}
		metrics.RecordRegistration(string(r.TicketKind), "error")
		return nil, err
	}

	metrics.RecordRegistration(string(r.TicketKind), "created")
	zlog.Info().
		Str("registration_id", r.ID).
		Str("ticket_kind", string(r.TicketKind)).
		Int("team_size", len(r.Members)).
		Int("total", r.Price.Total).
		Msg("registration created")

	publish(ctx, s.pub, RKRegistrationCreated, now, RegistrationCreatedPayload{
		RegistrationID: r.ID,
		UserID:         r.UserID,
		TeamName:       r.TeamName,
		TicketKind:     string(r.TicketKind),
		TeamSize:       len(r.Members),
		Total:          r.Price.Total,
		LeaderEmail:    r.Leader().Email,
	})
	return r, nil
}
