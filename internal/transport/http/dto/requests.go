package dto

type MemberTracksReq struct {
	WorkshopTrack    string `json:"workshop_track"`
	CompetitionTrack string `json:"competition_track"`
}

type PitchGroupReq struct {
	TeamMemberIndices []int `json:"team_member_indices"`
}

type QuoteReq struct {
	TicketKind         string                   `json:"ticket_kind"`
	TeamSize           int                      `json:"team_size"`
	MemberTracks       []MemberTracksReq        `json:"member_tracks"`
	TrackSelectionMode string                   `json:"track_selection_mode"`
	StartupPitchGroups map[string]PitchGroupReq `json:"startup_pitch_groups,omitempty"`
}

type MemberReq struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	College            string `json:"college"`
	Gender             string `json:"gender"`
	NeedsAccommodation bool   `json:"needs_accommodation"`
	WorkshopTrack      string `json:"workshop_track"`
	CompetitionTrack   string `json:"competition_track"`
}

type CreateRegistrationReq struct {
	TeamName           string                   `json:"team_name"`
	TicketKind         string                   `json:"ticket_kind"`
	TrackSelectionMode string                   `json:"track_selection_mode"`
	Members            []MemberReq              `json:"members"`
	StartupPitchGroups map[string]PitchGroupReq `json:"startup_pitch_groups,omitempty"`
	PaymentReference   string                   `json:"payment_reference"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type PitchDeckReq struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type CreateNotificationReq struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	URL      string   `json:"url"`
	Channels []string `json:"channels"`
	Audience string   `json:"audience"`
	UserIDs  []string `json:"user_ids,omitempty"`
}

// PushSubscriptionReq is the browser's PushSubscription.toJSON() shape.
type PushSubscriptionReq struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}
