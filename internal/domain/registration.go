package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusRejected  RegistrationStatus = "rejected"
)

func (s RegistrationStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusRejected
}

const MaxTeamSize = 4

type Member struct {
	ID                 string
	Name               string `validate:"required,max=100"`
	Email              string `validate:"required,email,max=254"`
	Phone              string `validate:"required,min=10,max=15,numeric"`
	College            string `validate:"required,max=200"`
	Gender             Gender `validate:"required,oneof=male female other"`
	NeedsAccommodation bool
	Tracks             MemberTracks
}

type Registration struct {
	ID       string
	UserID   string `validate:"required"`
	TeamName string `validate:"required,max=80"`

	TicketKind    TicketKind    `validate:"required,oneof=workshopOnly combo startupOnly"`
	SelectionMode SelectionMode `validate:"required,oneof=shared individual"`
	Members       []Member      `validate:"required,min=1,max=4,dive"`
	PitchGroups   map[int]PitchGroup

	Price            PriceBreakdown
	PaymentReference string `validate:"omitempty,max=64"`
	PitchDeckKey     string

	Status       RegistrationStatus
	ReviewedBy   string
	ReviewedAt   *time.Time
	RejectReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

var validate = validator.New()

func NewRegistration(userID, teamName string, kind TicketKind, mode SelectionMode, members []Member, groups map[int]PitchGroup, paymentRef string, now time.Time) (*Registration, error) {
	r := &Registration{
		ID:               uuid.NewString(),
		UserID:           strings.TrimSpace(userID),
		TeamName:         strings.TrimSpace(teamName),
		TicketKind:       kind,
		SelectionMode:    mode,
		Members:          make([]Member, len(members)),
		PitchGroups:      groups,
		PaymentReference: strings.TrimSpace(paymentRef),
		Status:           StatusPending,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}
	for i, m := range members {
		m.ID = uuid.NewString()
		m.Name = strings.TrimSpace(m.Name)
		m.Email = strings.ToLower(strings.TrimSpace(m.Email))
		m.Phone = strings.TrimSpace(m.Phone)
		m.College = strings.TrimSpace(m.College)
		r.Members[i] = m
	}
	if err := validateStruct(r); err != nil {
		return nil, err
	}
	r.normalizeTracks()
	if err := r.checkTracks(); err != nil {
		return nil, err
	}
	return r, nil
}

// normalizeTracks makes stored tracks reflect who actually attends what.
func (r *Registration) normalizeTracks() {
	switch {
	case r.TicketKind == TicketStartupOnly:
		for i := range r.Members {
			r.Members[i].Tracks = MemberTracks{CompetitionTrack: TrackStartupPitch}
		}
	case r.SelectionMode == ModeShared && len(r.Members) > 1:
		rep := r.Members[0].Tracks
		for i := range r.Members {
			r.Members[i].Tracks = rep
		}
	}
}

func (r *Registration) checkTracks() error {
	if r.TicketKind == TicketStartupOnly {
		return nil
	}
	for i, m := range r.Members {
		if m.Tracks.WorkshopTrack == WorkshopNone {
			return ErrValidationMeta("workshop track is required", map[string]string{
				fmt.Sprintf("members[%d].workshop_track", i): "required for workshop and combo passes",
			})
		}
	}
	return nil
}

func (r *Registration) PricingRequest() PricingRequest {
	tracks := make([]MemberTracks, len(r.Members))
	for i, m := range r.Members {
		tracks[i] = m.Tracks
	}
	return PricingRequest{
		TicketKind:    r.TicketKind,
		TeamSize:      len(r.Members),
		MemberTracks:  tracks,
		SelectionMode: r.SelectionMode,
		PitchGroups:   r.PitchGroups,
	}
}

// Demand is the number of seats this team takes in each capacity bucket.
func (r *Registration) Demand() Demand {
	d := Demand{CategoryTotal: len(r.Members)}
	for _, m := range r.Members {
		switch m.Tracks.WorkshopTrack {
		case WorkshopCloud:
			d[CategoryCloudWorkshop]++
		case WorkshopAI:
			d[CategoryAIWorkshop]++
		}
		switch m.Tracks.CompetitionTrack {
		case TrackHackathon:
			d[CategoryHackathon]++
		case TrackStartupPitch:
			d[CategoryPitch]++
		}
		if m.NeedsAccommodation {
			switch m.Gender {
			case GenderMale:
				d[CategoryMaleAccommodation]++
			case GenderFemale:
				d[CategoryFemaleAccommodation]++
			}
		}
	}
	return d
}

// CheckCapacity refuses a team that would overflow a closed bucket. Once the
// event total is full, startup-only teams are still admitted while pitch mode
// is on and pitch seats remain.
func (r *Registration) CheckCapacity(snap CapacitySnapshot) error {
	d := r.Demand()
	if r.TicketKind == TicketStartupOnly && snap.PitchModeEnabled {
		delete(d, CategoryTotal)
	}
	if c, overflow := snap.FirstOverflow(d); overflow {
		return ErrCapacityClosed(c)
	}
	return nil
}

func (r *Registration) Confirm(actorID string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState("only pending registrations can be confirmed")
	}
	t := now.UTC()
	r.Status = StatusConfirmed
	r.ReviewedBy = actorID
	r.ReviewedAt = &t
	r.UpdatedAt = t
	return nil
}

func (r *Registration) Reject(actorID, reason string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState("only pending registrations can be rejected")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > 500 {
		return ErrValidation("reason is required and must be <= 500 chars")
	}
	t := now.UTC()
	r.Status = StatusRejected
	r.ReviewedBy = actorID
	r.ReviewedAt = &t
	r.RejectReason = reason
	r.UpdatedAt = t
	return nil
}

func (r *Registration) Leader() Member {
	return r.Members[0]
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return ErrValidation(err.Error())
	}
	meta := make(map[string]string, len(ve))
	for _, fe := range ve {
		meta[fieldPath(fe)] = fieldMessage(fe)
	}
	return ErrValidationMeta("invalid registration", meta)
}

// fieldPath drops the root struct name: "Registration.Members[0].Email" -> "Members[0].Email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "numeric":
		return "must contain digits only"
	default:
		return "is invalid"
	}
}
