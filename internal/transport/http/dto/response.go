package dto

import (
	"time"

	"github.com/samyukta/registration-service/internal/domain"
)

type MemberResp struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	College            string `json:"college"`
	Gender             string `json:"gender"`
	NeedsAccommodation bool   `json:"needs_accommodation"`
	WorkshopTrack      string `json:"workshop_track"`
	CompetitionTrack   string `json:"competition_track"`
}

type RegistrationResp struct {
	ID                 string                   `json:"id"`
	UserID             string                   `json:"user_id"`
	TeamName           string                   `json:"team_name"`
	TicketKind         string                   `json:"ticket_kind"`
	TrackSelectionMode string                   `json:"track_selection_mode"`
	Members            []MemberResp             `json:"members"`
	StartupPitchGroups map[string]PitchGroupReq `json:"startup_pitch_groups,omitempty"`
	Price              domain.PriceBreakdown    `json:"price"`
	PaymentReference   string                   `json:"payment_reference,omitempty"`
	PitchDeckUploaded  bool                     `json:"pitch_deck_uploaded"`

	Status       string     `json:"status"`
	RejectReason string     `json:"reject_reason,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuoteResp struct {
	Price               domain.PriceBreakdown            `json:"price"`
	DirectJoinAvailable bool                             `json:"direct_join_available"`
	PitchModeEnabled    bool                             `json:"pitch_mode_enabled"`
	DirectJoin          map[string]domain.PriceBreakdown `json:"direct_join,omitempty"`
}

type NotificationResp struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	URL       string                 `json:"url,omitempty"`
	Channels  []string               `json:"channels"`
	Audience  string                 `json:"audience"`
	UserIDs   []string               `json:"user_ids,omitempty"`
	Status    string                 `json:"status"`
	CreatedBy string                 `json:"created_by"`
	CreatedAt time.Time              `json:"created_at"`
	SentAt    *time.Time             `json:"sent_at,omitempty"`
	Report    *domain.DeliveryReport `json:"report,omitempty"`
}

type InboxItemResp struct {
	ID             string    `json:"id"`
	NotificationID string    `json:"notification_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	URL            string    `json:"url,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}
