package registration

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/domain"
)

type UpdateStatusCmd struct {
	ID        string
	ActorID   string
	ActorRole string
	Status    domain.RegistrationStatus
	Reason    string
}

func (s *Service) UpdateStatus(ctx context.Context, cmd UpdateStatusCmd) (*domain.Registration, error) {
	if !isAdmin(cmd.ActorRole) {
		return nil, domain.ErrForbidden("admin only")
	}
	r, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	switch cmd.Status {
	case domain.StatusConfirmed:
		err = r.Confirm(cmd.ActorID, now)
	case domain.StatusRejected:
		err = r.Reject(cmd.ActorID, cmd.Reason, now)
	default:
		err = domain.ErrValidationMeta("invalid status", map[string]string{
			"status": "must be one of: confirmed, rejected",
		})
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, r); err != nil {
		return nil, err
	}

	zlog.Info().
		Str("registration_id", r.ID).
		Str("status", string(r.Status)).
		Str("actor_id", cmd.ActorID).
		Msg("registration reviewed")

	publish(ctx, s.pub, RKRegistrationStatusChanged, now, RegistrationStatusChangedPayload{
		RegistrationID: r.ID,
		UserID:         r.UserID,
		Status:         string(r.Status),
		Reason:         r.RejectReason,
		ReviewedBy:     r.ReviewedBy,
	})
	return r, nil
}
