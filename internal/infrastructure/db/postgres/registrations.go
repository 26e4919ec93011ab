package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/domain"
)

func createRegistration(ctx context.Context, q querier, r *domain.Registration) error {
	groups, err := encodePitchGroups(r.PitchGroups)
	if err != nil {
		return err
	}
	price, err := json.Marshal(r.Price)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, insertRegistrationSQL,
		r.ID, r.UserID, r.TeamName, string(r.TicketKind), string(r.SelectionMode), string(groups),
		string(price), r.Price.Total, r.PaymentReference, r.PitchDeckKey, string(r.Status),
		r.ReviewedBy, r.ReviewedAt, r.RejectReason, r.CreatedAt, r.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict("you already have an active registration")
	}
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	for i, m := range r.Members {
		if _, err := q.ExecContext(ctx, insertMemberSQL,
			m.ID, r.ID, i, m.Name, m.Email, m.Phone, m.College, string(m.Gender),
			m.NeedsAccommodation, string(m.Tracks.WorkshopTrack), string(m.Tracks.CompetitionTrack),
		); err != nil {
			return fmt.Errorf("insert member %d: %w", i, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(s rowScanner) (*domain.Registration, error) {
	var (
		r                  domain.Registration
		kind, mode, status string
		groups, price      []byte
	)
	if err := s.Scan(
		&r.ID, &r.UserID, &r.TeamName, &kind, &mode, &groups,
		&price, &r.PaymentReference, &r.PitchDeckKey, &status,
		&r.ReviewedBy, &r.ReviewedAt, &r.RejectReason, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	r.TicketKind = domain.TicketKind(kind)
	r.SelectionMode = domain.SelectionMode(mode)
	r.Status = domain.RegistrationStatus(status)
	if !r.Status.Valid() {
		return nil, domain.ErrInvalidState("invalid status in db")
	}

	pg, err := decodePitchGroups(groups)
	if err != nil {
		return nil, err
	}
	r.PitchGroups = pg
	if len(price) > 0 {
		if err := json.Unmarshal(price, &r.Price); err != nil {
			return nil, fmt.Errorf("decode price: %w", err)
		}
	}
	return &r, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, getRegistrationSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("registration not found")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, []*domain.Registration{reg}); err != nil {
		return nil, err
	}
	return reg, nil
}

// GetByUserID prefers the live registration over older rejected ones.
func (r *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, getRegistrationByUserSQL, userID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("registration not found")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, []*domain.Registration{reg}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Repo) List(ctx context.Context, f registration.ListFilter) ([]*domain.Registration, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, strings.ReplaceAll(condFmt, "$?", "$"+strconv.Itoa(argN)))
		args = append(args, val)
		argN++
	}

	if f.Status != "" {
		add("status = $?", string(f.Status))
	}
	if f.TicketKind != "" {
		add("ticket_kind = $?", string(f.TicketKind))
	}
	if f.Query != "" {
		add(`(team_name ILIKE $? OR EXISTS (
  SELECT 1 FROM registration_members m WHERE m.registration_id = registrations.id AND m.email ILIKE $?))`,
			"%"+f.Query+"%")
	}
	whereSQL := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registrations "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	listSQL := registrationColumns + whereSQL + `
ORDER BY created_at DESC, id DESC
LIMIT $` + strconv.Itoa(argN) + ` OFFSET $` + strconv.Itoa(argN+1)
	args = append(args, f.PageSize, offset)

	out, err := r.queryRegistrations(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll feeds the exports, oldest first.
func (r *Repo) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	return r.queryRegistrations(ctx, registrationColumns+`ORDER BY created_at ASC, id ASC`)
}

func (r *Repo) queryRegistrations(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) loadMembers(ctx context.Context, regs []*domain.Registration) error {
	if len(regs) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Registration, len(regs))
	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		byID[reg.ID] = reg
		ids = append(ids, reg.ID)
	}

	rows, err := r.db.QueryContext(ctx, membersSQL, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m                     domain.Member
			regID, gender, ws, ct string
		)
		if err := rows.Scan(&m.ID, &regID, &m.Name, &m.Email, &m.Phone, &m.College, &gender,
			&m.NeedsAccommodation, &ws, &ct); err != nil {
			return err
		}
		m.Gender = domain.Gender(gender)
		m.Tracks = domain.MemberTracks{
			WorkshopTrack:    domain.WorkshopTrack(ws),
			CompetitionTrack: domain.CompetitionTrack(ct),
		}
		if reg, ok := byID[regID]; ok {
			reg.Members = append(reg.Members, m)
		}
	}
	return rows.Err()
}

func (r *Repo) UpdateStatus(ctx context.Context, reg *domain.Registration) error {
	res, err := r.db.ExecContext(ctx, updateStatusSQL,
		reg.ID, string(reg.Status), reg.ReviewedBy, reg.ReviewedAt, reg.RejectReason, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	return requireOneRow(res, "registration not found")
}

func (r *Repo) SetPitchDeck(ctx context.Context, id, key string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET pitch_deck_key=$2, updated_at=$3 WHERE id=$1`, id, key, now.UTC())
	if err != nil {
		return fmt.Errorf("set pitch deck: %w", err)
	}
	return requireOneRow(res, "registration not found")
}

func requireOneRow(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound(notFound)
	}
	return nil
}

// Pitch groups are stored as {"<owner index>": [member indices]}.
func encodePitchGroups(groups map[int]domain.PitchGroup) ([]byte, error) {
	m := make(map[string][]int, len(groups))
	for owner, g := range groups {
		m[strconv.Itoa(owner)] = g.TeamMemberIndices
	}
	return json.Marshal(m)
}

func decodePitchGroups(b []byte) (map[int]domain.PitchGroup, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var m map[string][]int
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode pitch groups: %w", err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[int]domain.PitchGroup, len(m))
	for k, v := range m {
		owner, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("decode pitch groups: bad owner %q", k)
		}
		out[owner] = domain.PitchGroup{TeamMemberIndices: v}
	}
	return out, nil
}
