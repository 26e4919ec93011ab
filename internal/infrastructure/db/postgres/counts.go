package postgres

import (
	"context"
	"fmt"

	"github.com/samyukta/registration-service/internal/application/capacity"
	"github.com/samyukta/registration-service/internal/domain"
)

func registrationCounts(ctx context.Context, q querier) (domain.RegistrationCounts, error) {
	var c domain.RegistrationCounts
	err := q.QueryRowContext(ctx, countsSQL).Scan(
		&c.TotalParticipants,
		&c.CloudWorkshopParticipants,
		&c.AIWorkshopParticipants,
		&c.HackathonParticipants,
		&c.PitchParticipants,
		&c.MaleAccommodationRequests,
		&c.FemaleAccommodationRequests,
	)
	if err != nil {
		return domain.RegistrationCounts{}, fmt.Errorf("count registrations: %w", err)
	}
	return c, nil
}

// RegistrationCounts aggregates every non-rejected participant.
func (r *Repo) RegistrationCounts(ctx context.Context) (domain.RegistrationCounts, error) {
	return registrationCounts(ctx, r.db)
}

func (r *Repo) StatusTotals(ctx context.Context) ([]capacity.StatusTotal, error) {
	rows, err := r.db.QueryContext(ctx, statusTotalsSQL)
	if err != nil {
		return nil, fmt.Errorf("status totals: %w", err)
	}
	defer rows.Close()

	var out []capacity.StatusTotal
	for rows.Next() {
		var (
			t      capacity.StatusTotal
			status string
		)
		if err := rows.Scan(&status, &t.Teams, &t.Participants, &t.Amount); err != nil {
			return nil, err
		}
		t.Status = domain.RegistrationStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}
