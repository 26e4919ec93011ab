package registration

import (
	"context"
	"strings"

	"github.com/samyukta/registration-service/internal/domain"
)

func (s *Service) Get(ctx context.Context, id, actorID, actorRole string) (*domain.Registration, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(r, actorID, actorRole) {
		return nil, domain.ErrForbidden("not allowed")
	}
	return r, nil
}

func (s *Service) GetMine(ctx context.Context, userID string) (*domain.Registration, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrForbidden("login required")
	}
	return s.repo.GetByUserID(ctx, userID)
}

type ListFilter struct {
	Status     domain.RegistrationStatus
	TicketKind domain.TicketKind
	Query      string // team name or member email

	Page     int
	PageSize int
}

func (f *ListFilter) Normalize() error {
	f.Query = strings.TrimSpace(f.Query)
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.Status != "" && !f.Status.Valid() {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"status": "must be one of: pending, confirmed, rejected",
		})
	}
	if f.TicketKind != "" {
		if _, err := domain.ParseTicketKind(string(f.TicketKind)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*domain.Registration, int, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, f)
}
