package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// All amounts are whole Indian rupees.

type TicketKind string

const (
	TicketWorkshopOnly TicketKind = "workshopOnly"
	TicketCombo        TicketKind = "combo"
	TicketStartupOnly  TicketKind = "startupOnly"
)

func ParseTicketKind(s string) (TicketKind, error) {
	switch TicketKind(strings.TrimSpace(s)) {
	case TicketWorkshopOnly:
		return TicketWorkshopOnly, nil
	case TicketCombo:
		return TicketCombo, nil
	case TicketStartupOnly:
		return TicketStartupOnly, nil
	}
	return "", ErrValidationMeta("invalid ticket kind", map[string]string{
		"ticket_kind": "must be one of: workshopOnly, combo, startupOnly",
	})
}

type CompetitionTrack string

const (
	TrackNone         CompetitionTrack = ""
	TrackHackathon    CompetitionTrack = "Hackathon"
	TrackStartupPitch CompetitionTrack = "Startup Pitch"
)

func ParseCompetitionTrack(s string) (CompetitionTrack, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TrackNone, nil
	case "hackathon":
		return TrackHackathon, nil
	case "startup pitch", "startup_pitch", "pitch":
		return TrackStartupPitch, nil
	}
	return "", ErrValidationMeta("invalid competition track", map[string]string{
		"competition_track": "must be one of: Hackathon, Startup Pitch or empty",
	})
}

type WorkshopTrack string

const (
	WorkshopNone  WorkshopTrack = ""
	WorkshopCloud WorkshopTrack = "Cloud Computing"
	WorkshopAI    WorkshopTrack = "AI & ML"
)

func ParseWorkshopTrack(s string) (WorkshopTrack, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return WorkshopNone, nil
	case "cloud", "cloud computing":
		return WorkshopCloud, nil
	case "ai", "ai & ml", "ai/ml", "ai-ml":
		return WorkshopAI, nil
	}
	return "", ErrValidationMeta("invalid workshop track", map[string]string{
		"workshop_track": "must be one of: Cloud Computing, AI & ML or empty",
	})
}

type SelectionMode string

const (
	ModeShared     SelectionMode = "shared"
	ModeIndividual SelectionMode = "individual"
)

// ParseSelectionMode treats an empty mode as individual.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeIndividual:
		return ModeIndividual, nil
	case ModeShared:
		return ModeShared, nil
	}
	return "", ErrValidationMeta("invalid track selection mode", map[string]string{
		"track_selection_mode": "must be one of: shared, individual",
	})
}

type MemberTracks struct {
	WorkshopTrack    WorkshopTrack
	CompetitionTrack CompetitionTrack
}

// PitchGroup lists the member indices that share one pitch submission.
// It is keyed by the owning member's index in PricingRequest.PitchGroups.
type PitchGroup struct {
	TeamMemberIndices []int
}

type PricingRequest struct {
	TicketKind    TicketKind
	TeamSize      int
	MemberTracks  []MemberTracks
	SelectionMode SelectionMode
	PitchGroups   map[int]PitchGroup
}

type PricingTable struct {
	WorkshopPass          int
	ComboHackathon        int
	ComboPitch            int
	ComboDefault          int
	StartupOnly           int
	HackathonAddon        int
	PitchAddon            int
	TeamDiscountPerMember int
}

func DefaultPricingTable() PricingTable {
	return PricingTable{
		WorkshopPass:          800,
		ComboHackathon:        950,
		ComboPitch:            900,
		ComboDefault:          900,
		StartupOnly:           200,
		HackathonAddon:        150,
		PitchAddon:            100,
		TeamDiscountPerMember: 10,
	}
}

type LineKind string

const (
	LinePass     LineKind = "pass"
	LineAddon    LineKind = "addon"
	LineDiscount LineKind = "discount"
)

type LineItem struct {
	Kind      LineKind `json:"kind"`
	Label     string   `json:"label"`
	Quantity  int      `json:"quantity"`
	UnitPrice int      `json:"unit_price"`
	// Amount is always positive; discounts are subtracted from the subtotal.
	Amount int `json:"amount"`
}

type PriceBreakdown struct {
	Items    []LineItem `json:"items"`
	Subtotal int        `json:"subtotal"`
	Discount int        `json:"discount"`
	Total    int        `json:"total"`
}

func (b *PriceBreakdown) add(kind LineKind, label string, qty, unit int) {
	if qty <= 0 {
		return
	}
	amount := qty * unit
	b.Items = append(b.Items, LineItem{Kind: kind, Label: label, Quantity: qty, UnitPrice: unit, Amount: amount})
	if kind == LineDiscount {
		b.Discount += amount
	} else {
		b.Subtotal += amount
	}
}

func (b *PriceBreakdown) finish() PriceBreakdown {
	b.Total = b.Subtotal - b.Discount
	if b.Total < 0 {
		b.Total = 0
	}
	return *b
}

// Validate checks the request shape. A track list that does not match the
// team size is rejected rather than padded.
func (r PricingRequest) Validate() error {
	if r.TeamSize < 1 {
		return ErrValidationMeta("invalid team size", map[string]string{"team_size": "must be >= 1"})
	}
	if r.TeamSize > MaxTeamSize {
		return ErrValidationMeta("invalid team size", map[string]string{"team_size": "must be <= " + strconv.Itoa(MaxTeamSize)})
	}
	if len(r.MemberTracks) != r.TeamSize {
		return ErrValidationMeta("member tracks do not match team size", map[string]string{
			"member_tracks": fmt.Sprintf("expected %d entries, got %d", r.TeamSize, len(r.MemberTracks)),
		})
	}
	switch r.TicketKind {
	case TicketWorkshopOnly, TicketCombo, TicketStartupOnly:
	default:
		return ErrValidationMeta("invalid ticket kind", map[string]string{"ticket_kind": string(r.TicketKind)})
	}
	switch r.SelectionMode {
	case ModeShared, ModeIndividual:
	default:
		return ErrValidationMeta("invalid track selection mode", map[string]string{"track_selection_mode": string(r.SelectionMode)})
	}
	for owner, g := range r.PitchGroups {
		if owner < 0 || owner >= r.TeamSize {
			return ErrValidationMeta("invalid pitch group", map[string]string{"startup_pitch_groups": "owner index " + strconv.Itoa(owner) + " out of range"})
		}
		for _, idx := range g.TeamMemberIndices {
			if idx < 0 || idx >= r.TeamSize {
				return ErrValidationMeta("invalid pitch group", map[string]string{"startup_pitch_groups": "member index " + strconv.Itoa(idx) + " out of range"})
			}
		}
	}
	return nil
}

func ComputePrice(req PricingRequest, t PricingTable) (PriceBreakdown, error) {
	if err := req.Validate(); err != nil {
		return PriceBreakdown{}, err
	}

	var b PriceBreakdown
	switch req.TicketKind {
	case TicketStartupOnly:
		b.add(LinePass, "Startup Pitch Only", req.TeamSize, t.StartupOnly)

	case TicketCombo:
		for i, m := range req.MemberTracks {
			unit := t.ComboDefault
			label := "No competition"
			switch m.CompetitionTrack {
			case TrackHackathon:
				unit, label = t.ComboHackathon, string(TrackHackathon)
			case TrackStartupPitch:
				unit, label = t.ComboPitch, string(TrackStartupPitch)
			}
			b.add(LinePass, fmt.Sprintf("Combo Pass - Member %d (%s)", i+1, label), 1, unit)
		}
		if req.TeamSize > 1 {
			b.add(LineDiscount, "Team Discount", req.TeamSize, t.TeamDiscountPerMember)
		}

	case TicketWorkshopOnly:
		b.add(LinePass, "Workshop Pass", req.TeamSize, t.WorkshopPass)
		hackathon, pitch := workshopAddonUnits(req)
		b.add(LineAddon, "Hackathon Add-on", hackathon, t.HackathonAddon)
		b.add(LineAddon, "Startup Pitch Add-on", pitch, t.PitchAddon)
	}
	return b.finish(), nil
}

// workshopAddonUnits returns how many hackathon and pitch add-ons a
// workshop-only team pays for.
func workshopAddonUnits(req PricingRequest) (hackathon, pitch int) {
	if req.SelectionMode == ModeShared && req.TeamSize > 1 {
		// whole team pays together for the representative's choice
		switch req.MemberTracks[0].CompetitionTrack {
		case TrackHackathon:
			return req.TeamSize, 0
		case TrackStartupPitch:
			return 0, req.TeamSize
		}
		return 0, 0
	}

	owners := 0
	covered := map[int]bool{}
	for i, m := range req.MemberTracks {
		if m.CompetitionTrack != TrackStartupPitch {
			continue
		}
		g, ok := req.PitchGroups[i]
		if !ok {
			continue
		}
		owners++
		for _, idx := range g.TeamMemberIndices {
			if idx != i {
				covered[idx] = true
			}
		}
	}

	solo := 0
	for i, m := range req.MemberTracks {
		switch m.CompetitionTrack {
		case TrackHackathon:
			hackathon++
		case TrackStartupPitch:
			if _, owner := req.PitchGroups[i]; owner || covered[i] {
				continue
			}
			solo++
		}
	}
	return hackathon, solo + owners
}

// ComputeDirectJoinPrice prices a competition-only direct join, offered once
// the event total passes the direct-join threshold.
func ComputeDirectJoinPrice(track CompetitionTrack, teamSize int, snap CapacitySnapshot) (PriceBreakdown, error) {
	if !snap.DirectJoinAvailable {
		return PriceBreakdown{}, ErrInvalidState("direct join is not open")
	}
	if teamSize < 1 {
		return PriceBreakdown{}, ErrValidationMeta("invalid team size", map[string]string{"team_size": "must be >= 1"})
	}
	var b PriceBreakdown
	switch track {
	case TrackHackathon:
		b.add(LinePass, "Direct Join - Hackathon", teamSize, snap.DirectJoinHackathonPrice)
	case TrackStartupPitch:
		b.add(LinePass, "Direct Join - Startup Pitch", teamSize, snap.DirectJoinPitchPrice)
	default:
		return PriceBreakdown{}, ErrValidationMeta("direct join needs a competition track", map[string]string{
			"competition_track": "must be Hackathon or Startup Pitch",
		})
	}
	return b.finish(), nil
}
