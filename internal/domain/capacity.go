package domain

import "fmt"

// Category names one of the capacity-tracked buckets.
type Category string

const (
	CategoryTotal               Category = "total"
	CategoryCloudWorkshop       Category = "cloud_workshop"
	CategoryAIWorkshop          Category = "ai_workshop"
	CategoryHackathon           Category = "hackathon"
	CategoryPitch               Category = "pitch"
	CategoryMaleAccommodation   Category = "male_accommodation"
	CategoryFemaleAccommodation Category = "female_accommodation"
)

// Categories lists every tracked bucket in presentation order.
var Categories = []Category{
	CategoryTotal,
	CategoryCloudWorkshop,
	CategoryAIWorkshop,
	CategoryHackathon,
	CategoryPitch,
	CategoryMaleAccommodation,
	CategoryFemaleAccommodation,
}

// RegistrationCounts is a point-in-time read model produced by the store.
// It is never cached.
type RegistrationCounts struct {
	TotalParticipants           int
	CloudWorkshopParticipants   int
	AIWorkshopParticipants      int
	HackathonParticipants       int
	PitchParticipants           int
	MaleAccommodationRequests   int
	FemaleAccommodationRequests int
}

type CapacityLimits struct {
	MaxTotal               int
	MaxCloud               int
	MaxAI                  int
	MaxHackathon           int
	MaxPitch               int
	MaxMaleAccommodation   int
	MaxFemaleAccommodation int

	DirectJoinThreshold int
	PitchModeThreshold  int

	DirectJoinHackathonPrice int
	DirectJoinPitchPrice     int
}

func DefaultCapacityLimits() CapacityLimits {
	return CapacityLimits{
		MaxTotal:                 400,
		MaxCloud:                 200,
		MaxAI:                    200,
		MaxHackathon:             250,
		MaxPitch:                 250,
		MaxMaleAccommodation:     50,
		MaxFemaleAccommodation:   50,
		DirectJoinThreshold:      350,
		PitchModeThreshold:       350,
		DirectJoinHackathonPrice: 400,
		DirectJoinPitchPrice:     300,
	}
}

// Validate rejects negative limits; they are fixed at deploy time.
func (l CapacityLimits) Validate() error {
	fields := map[string]int{
		"max_total":                   l.MaxTotal,
		"max_cloud":                   l.MaxCloud,
		"max_ai":                      l.MaxAI,
		"max_hackathon":               l.MaxHackathon,
		"max_pitch":                   l.MaxPitch,
		"max_male_accommodation":      l.MaxMaleAccommodation,
		"max_female_accommodation":    l.MaxFemaleAccommodation,
		"direct_join_threshold":       l.DirectJoinThreshold,
		"pitch_mode_threshold":        l.PitchModeThreshold,
		"direct_join_hackathon_price": l.DirectJoinHackathonPrice,
		"direct_join_pitch_price":     l.DirectJoinPitchPrice,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("capacity limit %s must be >= 0, got %d", name, v)
		}
	}
	return nil
}

type CategoryStatus struct {
	Registered int  `json:"registered"`
	Max        int  `json:"max"`
	Remaining  int  `json:"remaining"`
	Closed     bool `json:"closed"`
}

// NewCategoryStatus derives remaining and closed independently so an
// over-booked bucket still reports closed with zero remaining.
func NewCategoryStatus(registered, max int) CategoryStatus {
	remaining := max - registered
	if remaining < 0 {
		remaining = 0
	}
	return CategoryStatus{
		Registered: registered,
		Max:        max,
		Remaining:  remaining,
		Closed:     registered >= max,
	}
}

type CapacitySnapshot struct {
	Total               CategoryStatus
	CloudWorkshop       CategoryStatus
	AIWorkshop          CategoryStatus
	Hackathon           CategoryStatus
	Pitch               CategoryStatus
	MaleAccommodation   CategoryStatus
	FemaleAccommodation CategoryStatus

	// total > DirectJoinThreshold
	DirectJoinAvailable bool
	// total >= PitchModeThreshold
	PitchModeEnabled bool

	DirectJoinHackathonPrice int
	DirectJoinPitchPrice     int
}

func ComputeSnapshot(counts RegistrationCounts, limits CapacityLimits) CapacitySnapshot {
	total := counts.TotalParticipants
	return CapacitySnapshot{
		Total:               NewCategoryStatus(total, limits.MaxTotal),
		CloudWorkshop:       NewCategoryStatus(counts.CloudWorkshopParticipants, limits.MaxCloud),
		AIWorkshop:          NewCategoryStatus(counts.AIWorkshopParticipants, limits.MaxAI),
		Hackathon:           NewCategoryStatus(counts.HackathonParticipants, limits.MaxHackathon),
		Pitch:               NewCategoryStatus(counts.PitchParticipants, limits.MaxPitch),
		MaleAccommodation:   NewCategoryStatus(counts.MaleAccommodationRequests, limits.MaxMaleAccommodation),
		FemaleAccommodation: NewCategoryStatus(counts.FemaleAccommodationRequests, limits.MaxFemaleAccommodation),

		DirectJoinAvailable: total > limits.DirectJoinThreshold,
		PitchModeEnabled:    total >= limits.PitchModeThreshold,

		DirectJoinHackathonPrice: limits.DirectJoinHackathonPrice,
		DirectJoinPitchPrice:     limits.DirectJoinPitchPrice,
	}
}

// Status returns the bucket for c. Unknown categories report a zero, open bucket.
func (s CapacitySnapshot) Status(c Category) CategoryStatus {
	switch c {
	case CategoryTotal:
		return s.Total
	case CategoryCloudWorkshop:
		return s.CloudWorkshop
	case CategoryAIWorkshop:
		return s.AIWorkshop
	case CategoryHackathon:
		return s.Hackathon
	case CategoryPitch:
		return s.Pitch
	case CategoryMaleAccommodation:
		return s.MaleAccommodation
	case CategoryFemaleAccommodation:
		return s.FemaleAccommodation
	default:
		return CategoryStatus{}
	}
}

// Demand is how many seats a prospective registration takes per category.
type Demand map[Category]int

// FirstOverflow returns the first category (in Categories order) that cannot
// absorb the demand.
func (s CapacitySnapshot) FirstOverflow(d Demand) (Category, bool) {
	for _, c := range Categories {
		n := d[c]
		if n <= 0 {
			continue
		}
		st := s.Status(c)
		if st.Closed || n > st.Remaining {
			return c, true
		}
	}
	return "", false
}
