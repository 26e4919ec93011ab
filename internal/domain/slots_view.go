package domain

// Older dashboard builds read slot data from flat keys, and the live counter
// widget reads a third shape. All of them are projected from CapacitySnapshot
// here and nowhere else.

type aliasNames struct {
	category   Category
	short      string
	registered string
	max        string
	remaining  string
	closed     string
}

var slotAliases = []aliasNames{
	{CategoryTotal, "total", "total_registrations", "max_total", "remaining_total", "event_closed"},
	{CategoryCloudWorkshop, "cloud", "cloud_workshop", "max_cloud", "remaining_cloud", "cloud_closed"},
	{CategoryAIWorkshop, "ai", "ai_workshop", "max_ai", "remaining_ai", "ai_closed"},
	{CategoryHackathon, "hackathon", "hackathon", "max_hackathon", "remaining_hackathon", "hackathon_closed"},
	{CategoryPitch, "pitch", "pitch", "max_pitch", "remaining_pitch", "pitch_closed"},
	{CategoryMaleAccommodation, "male_accommodation", "male_accommodation", "max_male_accommodation", "remaining_male_accommodation", "male_accommodation_closed"},
	{CategoryFemaleAccommodation, "female_accommodation", "female_accommodation", "max_female_accommodation", "remaining_female_accommodation", "female_accommodation_closed"},
}

// FlatFields is the legacy flat projection of s, keyed by historical names.
func (s CapacitySnapshot) FlatFields() map[string]any {
	out := make(map[string]any, len(slotAliases)*4+4)
	for _, a := range slotAliases {
		st := s.Status(a.category)
		out[a.registered] = st.Registered
		out[a.max] = st.Max
		out[a.remaining] = st.Remaining
		out[a.closed] = st.Closed
	}
	out["direct_join_available"] = s.DirectJoinAvailable
	out["pitch_mode_enabled"] = s.PitchModeEnabled
	out["direct_join_hackathon_price"] = s.DirectJoinHackathonPrice
	out["direct_join_pitch_price"] = s.DirectJoinPitchPrice
	return out
}

type RealtimeSlot struct {
	Count     int  `json:"count"`
	Limit     int  `json:"limit"`
	Available int  `json:"available"`
	Full      bool `json:"full"`
}

// Realtime is the shape polled by the live seat counter.
func (s CapacitySnapshot) Realtime() map[string]RealtimeSlot {
	out := make(map[string]RealtimeSlot, len(slotAliases))
	for _, a := range slotAliases {
		st := s.Status(a.category)
		out[a.short] = RealtimeSlot{
			Count:     st.Registered,
			Limit:     st.Max,
			Available: st.Remaining,
			Full:      st.Closed,
		}
	}
	return out
}

// SlotsDocument is the full /slots payload: the structured snapshot, the flat
// aliases merged at top level, and the "legacy" and "realtime" blocks.
func (s CapacitySnapshot) SlotsDocument() map[string]any {
	doc := s.FlatFields()

	doc["total"] = s.Total
	doc["workshops"] = map[string]CategoryStatus{
		"cloud": s.CloudWorkshop,
		"ai":    s.AIWorkshop,
	}
	doc["competitions"] = map[string]CategoryStatus{
		"hackathon": s.Hackathon,
		"pitch":     s.Pitch,
	}
	doc["accommodation"] = map[string]CategoryStatus{
		"male":   s.MaleAccommodation,
		"female": s.FemaleAccommodation,
	}
	doc["direct_join_prices"] = map[string]int{
		"hackathon": s.DirectJoinHackathonPrice,
		"pitch":     s.DirectJoinPitchPrice,
	}
	doc["legacy"] = s.FlatFields()
	doc["realtime"] = s.Realtime()
	return doc
}
