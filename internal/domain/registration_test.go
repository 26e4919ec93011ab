package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return tt.UTC()
}

func member(name string, g Gender, acc bool, ws WorkshopTrack, ct CompetitionTrack) Member {
	return Member{
		Name:               name,
		Email:              name + "@example.com",
		Phone:              "9876543210",
		College:            "GITAM",
		Gender:             g,
		NeedsAccommodation: acc,
		Tracks:             MemberTracks{WorkshopTrack: ws, CompetitionTrack: ct},
	}
}

func TestNewRegistration_Validation(t *testing.T) {
	now := mustTime(t, "2025-01-10T10:00:00Z")

	t.Run("valid_team", func(t *testing.T) {
		r, err := NewRegistration("user-1", " Byte Busters ", TicketCombo, ModeIndividual, []Member{
			member("asha", GenderFemale, true, WorkshopAI, TrackHackathon),
			member("ravi", GenderMale, false, WorkshopCloud, TrackStartupPitch),
		}, nil, "UTR123", now)
		require.NoError(t, err)
		assert.Equal(t, "Byte Busters", r.TeamName)
		assert.Equal(t, StatusPending, r.Status)
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Members[0].ID)
		assert.NotEqual(t, r.Members[0].ID, r.Members[1].ID)
	})

	t.Run("fail_on_bad_email", func(t *testing.T) {
		m := member("asha", GenderFemale, false, WorkshopAI, TrackNone)
		m.Email = "not-an-email"
		_, err := NewRegistration("user-1", "Team", TicketWorkshopOnly, ModeIndividual, []Member{m}, nil, "", now)
		require.Error(t, err)
		ae := err.(*AppError)
		assert.Equal(t, CodeValidation, ae.Code)
		assert.Equal(t, "must be a valid email address", ae.Meta["Members[0].Email"])
	})

	t.Run("fail_on_team_too_large", func(t *testing.T) {
		ms := make([]Member, MaxTeamSize+1)
		for i := range ms {
			ms[i] = member("m", GenderMale, false, WorkshopCloud, TrackNone)
		}
		_, err := NewRegistration("user-1", "Team", TicketWorkshopOnly, ModeIndividual, ms, nil, "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Members")
	})

	t.Run("fail_on_missing_workshop_track", func(t *testing.T) {
		_, err := NewRegistration("user-1", "Team", TicketWorkshopOnly, ModeIndividual, []Member{
			member("asha", GenderFemale, false, WorkshopNone, TrackNone),
		}, nil, "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workshop track is required")
	})

	t.Run("startup_only_needs_no_workshop", func(t *testing.T) {
		r, err := NewRegistration("user-1", "Pitchers", TicketStartupOnly, ModeIndividual, []Member{
			member("asha", GenderFemale, false, WorkshopAI, TrackHackathon),
		}, nil, "", now)
		require.NoError(t, err)
		assert.Equal(t, MemberTracks{CompetitionTrack: TrackStartupPitch}, r.Members[0].Tracks)
	})
}

func TestRegistration_SharedModeCopiesRepresentative(t *testing.T) {
	now := mustTime(t, "2025-01-10T10:00:00Z")
	r, err := NewRegistration("user-1", "Team", TicketWorkshopOnly, ModeShared, []Member{
		member("a", GenderMale, false, WorkshopCloud, TrackHackathon),
		member("b", GenderMale, false, WorkshopAI, TrackNone),
	}, nil, "", now)
	require.NoError(t, err)

	for _, m := range r.Members {
		assert.Equal(t, WorkshopCloud, m.Tracks.WorkshopTrack)
		assert.Equal(t, TrackHackathon, m.Tracks.CompetitionTrack)
	}

	price, err := ComputePrice(r.PricingRequest(), DefaultPricingTable())
	require.NoError(t, err)
	assert.Equal(t, 1600+300, price.Total)
}

func TestRegistration_Demand(t *testing.T) {
	now := mustTime(t, "2025-01-10T10:00:00Z")
	r, err := NewRegistration("user-1", "Team", TicketCombo, ModeIndividual, []Member{
		member("a", GenderMale, true, WorkshopCloud, TrackHackathon),
		member("b", GenderFemale, true, WorkshopAI, TrackStartupPitch),
		member("c", GenderOther, true, WorkshopAI, TrackNone),
	}, nil, "", now)
	require.NoError(t, err)

	assert.Equal(t, Demand{
		CategoryTotal:               3,
		CategoryCloudWorkshop:       1,
		CategoryAIWorkshop:          2,
		CategoryHackathon:           1,
		CategoryPitch:               1,
		CategoryMaleAccommodation:   1,
		CategoryFemaleAccommodation: 1,
	}, r.Demand())
}

func TestRegistration_CheckCapacity(t *testing.T) {
	now := mustTime(t, "2025-01-10T10:00:00Z")
	limits := DefaultCapacityLimits()

	workshop, err := NewRegistration("u", "W", TicketWorkshopOnly, ModeIndividual, []Member{
		member("a", GenderMale, true, WorkshopCloud, TrackNone),
	}, nil, "", now)
	require.NoError(t, err)

	startup, err := NewRegistration("u", "S", TicketStartupOnly, ModeIndividual, []Member{
		member("a", GenderMale, false, WorkshopNone, TrackNone),
	}, nil, "", now)
	require.NoError(t, err)

	t.Run("open", func(t *testing.T) {
		snap := ComputeSnapshot(RegistrationCounts{TotalParticipants: 10}, limits)
		assert.NoError(t, workshop.CheckCapacity(snap))
	})

	t.Run("accommodation_closed", func(t *testing.T) {
		snap := ComputeSnapshot(RegistrationCounts{TotalParticipants: 10, MaleAccommodationRequests: 50}, limits)
		err := workshop.CheckCapacity(snap)
		require.Error(t, err)
		ae := err.(*AppError)
		assert.Equal(t, CodeCapacityClosed, ae.Code)
		assert.Equal(t, "male_accommodation", ae.Meta["category"])
	})

	t.Run("event_full_blocks_workshop", func(t *testing.T) {
		snap := ComputeSnapshot(RegistrationCounts{TotalParticipants: 400}, limits)
		err := workshop.CheckCapacity(snap)
		require.Error(t, err)
		assert.Equal(t, "total", err.(*AppError).Meta["category"])
	})

	t.Run("event_full_admits_startup_in_pitch_mode", func(t *testing.T) {
		snap := ComputeSnapshot(RegistrationCounts{TotalParticipants: 400, PitchParticipants: 100}, limits)
		assert.NoError(t, startup.CheckCapacity(snap))
	})

	t.Run("pitch_full_blocks_startup", func(t *testing.T) {
		snap := ComputeSnapshot(RegistrationCounts{TotalParticipants: 400, PitchParticipants: 250}, limits)
		err := startup.CheckCapacity(snap)
		require.Error(t, err)
		assert.Equal(t, "pitch", err.(*AppError).Meta["category"])
	})
}

func TestRegistration_Review(t *testing.T) {
	now := mustTime(t, "2025-01-10T10:00:00Z")
	newReg := func() *Registration {
		r, err := NewRegistration("u", "T", TicketWorkshopOnly, ModeIndividual, []Member{
			member("a", GenderMale, false, WorkshopCloud, TrackNone),
		}, nil, "", now)
		require.NoError(t, err)
		return r
	}

	t.Run("confirm_pending", func(t *testing.T) {
		r := newReg()
		require.NoError(t, r.Confirm("admin-1", now))
		assert.Equal(t, StatusConfirmed, r.Status)
		assert.Equal(t, "admin-1", r.ReviewedBy)
		assert.NotNil(t, r.ReviewedAt)
	})

	t.Run("cannot_confirm_twice", func(t *testing.T) {
		r := newReg()
		require.NoError(t, r.Confirm("admin-1", now))
		err := r.Confirm("admin-1", now)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidState, err.(*AppError).Code)
	})

	t.Run("reject_requires_reason", func(t *testing.T) {
		r := newReg()
		err := r.Reject("admin-1", "  ", now)
		require.Error(t, err)
		require.NoError(t, r.Reject("admin-1", "payment not received", now))
		assert.Equal(t, StatusRejected, r.Status)
		assert.Equal(t, "payment not received", r.RejectReason)
	})
}
