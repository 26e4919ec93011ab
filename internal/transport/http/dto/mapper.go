package dto

import (
	"strconv"
	"strings"

	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/domain"
)

func (q QuoteReq) ToPricingRequest() (domain.PricingRequest, error) {
	kind, err := domain.ParseTicketKind(q.TicketKind)
	if err != nil {
		return domain.PricingRequest{}, err
	}
	mode, err := domain.ParseSelectionMode(q.TrackSelectionMode)
	if err != nil {
		return domain.PricingRequest{}, err
	}
	tracks := make([]domain.MemberTracks, len(q.MemberTracks))
	for i, t := range q.MemberTracks {
		if tracks[i], err = parseTracks(t.WorkshopTrack, t.CompetitionTrack); err != nil {
			return domain.PricingRequest{}, err
		}
	}
	groups, err := parsePitchGroups(q.StartupPitchGroups)
	if err != nil {
		return domain.PricingRequest{}, err
	}
	return domain.PricingRequest{
		TicketKind:    kind,
		TeamSize:      q.TeamSize,
		MemberTracks:  tracks,
		SelectionMode: mode,
		PitchGroups:   groups,
	}, nil
}

func (c CreateRegistrationReq) ToCommand(actorID string) (registration.RegisterCmd, error) {
	kind, err := domain.ParseTicketKind(c.TicketKind)
	if err != nil {
		return registration.RegisterCmd{}, err
	}
	mode, err := domain.ParseSelectionMode(c.TrackSelectionMode)
	if err != nil {
		return registration.RegisterCmd{}, err
	}
	members := make([]domain.Member, len(c.Members))
	for i, m := range c.Members {
		tracks, err := parseTracks(m.WorkshopTrack, m.CompetitionTrack)
		if err != nil {
			return registration.RegisterCmd{}, err
		}
		members[i] = domain.Member{
			Name:               strings.TrimSpace(m.Name),
			Email:              strings.ToLower(strings.TrimSpace(m.Email)),
			Phone:              strings.TrimSpace(m.Phone),
			College:            strings.TrimSpace(m.College),
			Gender:             domain.Gender(strings.ToLower(strings.TrimSpace(m.Gender))),
			NeedsAccommodation: m.NeedsAccommodation,
			Tracks:             tracks,
		}
	}
	groups, err := parsePitchGroups(c.StartupPitchGroups)
	if err != nil {
		return registration.RegisterCmd{}, err
	}
	return registration.RegisterCmd{
		ActorID:          actorID,
		TeamName:         c.TeamName,
		TicketKind:       kind,
		SelectionMode:    mode,
		Members:          members,
		PitchGroups:      groups,
		PaymentReference: strings.TrimSpace(c.PaymentReference),
	}, nil
}

func parseTracks(workshop, competition string) (domain.MemberTracks, error) {
	ws, err := domain.ParseWorkshopTrack(workshop)
	if err != nil {
		return domain.MemberTracks{}, err
	}
	ct, err := domain.ParseCompetitionTrack(competition)
	if err != nil {
		return domain.MemberTracks{}, err
	}
	return domain.MemberTracks{WorkshopTrack: ws, CompetitionTrack: ct}, nil
}

// JSON object keys are strings; pitch groups are keyed by the owner's member index.
func parsePitchGroups(in map[string]PitchGroupReq) (map[int]domain.PitchGroup, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[int]domain.PitchGroup, len(in))
	for k, g := range in {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, domain.ErrValidationMeta("invalid pitch group", map[string]string{
				"startup_pitch_groups": "keys must be member indices",
			})
		}
		out[idx] = domain.PitchGroup{TeamMemberIndices: g.TeamMemberIndices}
	}
	return out, nil
}

func ToRegistrationResp(r *domain.Registration) RegistrationResp {
	members := make([]MemberResp, len(r.Members))
	for i, m := range r.Members {
		members[i] = MemberResp{
			ID:                 m.ID,
			Name:               m.Name,
			Email:              m.Email,
			Phone:              m.Phone,
			College:            m.College,
			Gender:             string(m.Gender),
			NeedsAccommodation: m.NeedsAccommodation,
			WorkshopTrack:      string(m.Tracks.WorkshopTrack),
			CompetitionTrack:   string(m.Tracks.CompetitionTrack),
		}
	}
	var groups map[string]PitchGroupReq
	if len(r.PitchGroups) > 0 {
		groups = make(map[string]PitchGroupReq, len(r.PitchGroups))
		for k, g := range r.PitchGroups {
			groups[strconv.Itoa(k)] = PitchGroupReq{TeamMemberIndices: g.TeamMemberIndices}
		}
	}
	return RegistrationResp{
		ID:                 r.ID,
		UserID:             r.UserID,
		TeamName:           r.TeamName,
		TicketKind:         string(r.TicketKind),
		TrackSelectionMode: string(r.SelectionMode),
		Members:            members,
		StartupPitchGroups: groups,
		Price:              r.Price,
		PaymentReference:   r.PaymentReference,
		PitchDeckUploaded:  r.PitchDeckKey != "",
		Status:             string(r.Status),
		RejectReason:       r.RejectReason,
		ReviewedAt:         r.ReviewedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func ToRegistrationList(regs []*domain.Registration) []RegistrationResp {
	out := make([]RegistrationResp, len(regs))
	for i, r := range regs {
		out[i] = ToRegistrationResp(r)
	}
	return out
}

func ToQuoteResp(q *registration.Quote) QuoteResp {
	resp := QuoteResp{
		Price:               q.Price,
		DirectJoinAvailable: q.DirectJoinAvailable,
		PitchModeEnabled:    q.PitchModeEnabled,
	}
	if len(q.DirectJoin) > 0 {
		resp.DirectJoin = make(map[string]domain.PriceBreakdown, len(q.DirectJoin))
		for track, p := range q.DirectJoin {
			resp.DirectJoin[string(track)] = p
		}
	}
	return resp
}

func ToNotificationResp(n *domain.Notification) NotificationResp {
	channels := make([]string, len(n.Channels))
	for i, c := range n.Channels {
		channels[i] = string(c)
	}
	return NotificationResp{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		URL:       n.URL,
		Channels:  channels,
		Audience:  string(n.Audience),
		UserIDs:   n.UserIDs,
		Status:    string(n.Status),
		CreatedBy: n.CreatedBy,
		CreatedAt: n.CreatedAt,
		SentAt:    n.SentAt,
		Report:    n.Report,
	}
}

func ToNotificationList(ns []*domain.Notification) []NotificationResp {
	out := make([]NotificationResp, len(ns))
	for i, n := range ns {
		out[i] = ToNotificationResp(n)
	}
	return out
}

func ToInboxResp(items []domain.InboxItem) []InboxItemResp {
	out := make([]InboxItemResp, len(items))
	for i, it := range items {
		out[i] = InboxItemResp{
			ID:             it.ID,
			NotificationID: it.NotificationID,
			Title:          it.Title,
			Message:        it.Message,
			URL:            it.URL,
			Read:           it.Read,
			CreatedAt:      it.CreatedAt,
		}
	}
	return out
}

func ToChannels(in []string) []domain.Channel {
	out := make([]domain.Channel, len(in))
	for i, c := range in {
		out[i] = domain.Channel(strings.ToLower(strings.TrimSpace(c)))
	}
	return out
}
