package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/domain"
)

const SheetName = "Registrations"

type Source interface {
	ListAll(ctx context.Context) ([]*domain.Registration, error)
}

type SheetWriter interface {
	ReplaceRows(ctx context.Context, sheet string, rows [][]string) error
}

type Service struct {
	src    Source
	sheets SheetWriter
}

// New accepts a nil SheetWriter when the spreadsheet export is not configured.
func New(src Source, sheets SheetWriter) *Service {
	return &Service{src: src, sheets: sheets}
}

var header = []string{
	"registration_id", "team_name", "status", "ticket_kind", "selection_mode",
	"total", "payment_reference", "pitch_deck_key", "created_at",
	"member_no", "name", "email", "phone", "college", "gender",
	"needs_accommodation", "workshop_track", "competition_track",
}

// Rows flattens registrations to one row per member, header first.
func Rows(regs []*domain.Registration) [][]string {
	out := make([][]string, 0, len(regs)*2+1)
	out = append(out, header)
	for _, r := range regs {
		for i, m := range r.Members {
			out = append(out, []string{
				r.ID, r.TeamName, string(r.Status), string(r.TicketKind), string(r.SelectionMode),
				strconv.Itoa(r.Price.Total), r.PaymentReference, r.PitchDeckKey, r.CreatedAt.UTC().Format(time.RFC3339),
				strconv.Itoa(i + 1), m.Name, m.Email, m.Phone, m.College, string(m.Gender),
				strconv.FormatBool(m.NeedsAccommodation), string(m.Tracks.WorkshopTrack), string(m.Tracks.CompetitionTrack),
			})
		}
	}
	return out
}

func (s *Service) WriteCSV(ctx context.Context, w io.Writer) error {
	regs, err := s.src.ListAll(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(regs)); err != nil {
		return err
	}
	return cw.Error()
}

type SyncResult struct {
	Sheet         string `json:"sheet"`
	Registrations int    `json:"registrations"`
	Rows          int    `json:"rows"`
}

func (s *Service) SyncSheets(ctx context.Context) (*SyncResult, error) {
	if s.sheets == nil {
		return nil, domain.ErrUnavailable("spreadsheet export is not configured")
	}
	regs, err := s.src.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := Rows(regs)
	if err := s.sheets.ReplaceRows(ctx, SheetName, rows); err != nil {
		zlog.Error().Err(err).Msg("sheets sync failed")
		return nil, domain.ErrUnavailable("spreadsheet export failed")
	}
	return &SyncResult{Sheet: SheetName, Registrations: len(regs), Rows: len(rows) - 1}, nil
}
