package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/domain"
)

var regCols = []string{
	"id", "user_id", "team_name", "ticket_kind", "selection_mode", "pitch_groups",
	"price", "payment_reference", "pitch_deck_key", "status",
	"reviewed_by", "reviewed_at", "reject_reason", "created_at", "updated_at",
}

var memberCols = []string{
	"id", "registration_id", "name", "email", "phone", "college", "gender",
	"needs_accommodation", "workshop_track", "competition_track",
}

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func sampleRegistration(t *testing.T) *domain.Registration {
	t.Helper()
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	r, err := domain.NewRegistration("user-1", "Byte Busters", domain.TicketCombo, domain.ModeIndividual, []domain.Member{
		{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", College: "GITAM", Gender: domain.GenderFemale,
			Tracks: domain.MemberTracks{WorkshopTrack: domain.WorkshopAI, CompetitionTrack: domain.TrackHackathon}},
		{Name: "Ravi", Email: "ravi@example.com", Phone: "9876543211", College: "GITAM", Gender: domain.GenderMale, NeedsAccommodation: true,
			Tracks: domain.MemberTracks{WorkshopTrack: domain.WorkshopCloud, CompetitionTrack: domain.TrackStartupPitch}},
	}, map[int]domain.PitchGroup{1: {TeamMemberIndices: []int{0}}}, "UTR1", now)
	require.NoError(t, err)
	r.Price = domain.PriceBreakdown{Total: 1830}
	return r
}

func countsRow(total, cloud, ai, hack, pitch, male, female int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"total", "cloud", "ai", "hackathon", "pitch", "male", "female"}).
		AddRow(total, cloud, ai, hack, pitch, male, female)
}

func TestRepo_RegistrationCounts(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("FROM registration_members m\\s+JOIN registrations r").
		WillReturnRows(countsRow(351, 180, 171, 240, 90, 12, 9))

	c, err := repo.RegistrationCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationCounts{
		TotalParticipants:           351,
		CloudWorkshopParticipants:   180,
		AIWorkshopParticipants:      171,
		HackathonParticipants:       240,
		PitchParticipants:           90,
		MaleAccommodationRequests:   12,
		FemaleAccommodationRequests: 9,
	}, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_WithTx_Create(t *testing.T) {
	t.Run("locks_counts_and_inserts", func(t *testing.T) {
		repo, mock := newMock(t)
		r := sampleRegistration(t)

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WithArgs(capacityLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs("user-1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("FROM registration_members m").WillReturnRows(countsRow(10, 5, 5, 3, 2, 1, 1))
		mock.ExpectExec("INSERT INTO registrations").
			WithArgs(
				r.ID, "user-1", "Byte Busters", "combo", "individual", `{"1":[0]}`,
				sqlmock.AnyArg(), 1830, "UTR1", "", "pending",
				"", sqlmock.AnyArg(), "", r.CreatedAt, r.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO registration_members").
			WithArgs(r.Members[0].ID, r.ID, 0, "Asha", "asha@example.com", "9876543210", "GITAM", "female", false, "AI & ML", "Hackathon").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO registration_members").
			WithArgs(r.Members[1].ID, r.ID, 1, "Ravi", "ravi@example.com", "9876543211", "GITAM", "male", true, "Cloud Computing", "Startup Pitch").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		var seen domain.RegistrationCounts
		err := repo.WithTx(context.Background(), func(tx registration.TxRepo) error {
			if err := tx.LockCapacity(context.Background()); err != nil {
				return err
			}
			exists, err := tx.ExistsForUser(context.Background(), "user-1")
			if err != nil || exists {
				return err
			}
			seen, err = tx.RegistrationCounts(context.Background())
			if err != nil {
				return err
			}
			return tx.Create(context.Background(), r)
		})
		require.NoError(t, err)
		assert.Equal(t, 10, seen.TotalParticipants)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique_violation_is_conflict_and_rolls_back", func(t *testing.T) {
		repo, mock := newMock(t)
		r := sampleRegistration(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO registrations").WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.WithTx(context.Background(), func(tx registration.TxRepo) error {
			return tx.Create(context.Background(), r)
		})
		require.Error(t, err)
		var ae *domain.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, domain.CodeConflict, ae.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepo_GetByID(t *testing.T) {
	created := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	t.Run("success_mapping", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("FROM registrations\\s+WHERE id =").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows(regCols).AddRow(
				"r1", "user-1", "Team", "workshopOnly", "shared", []byte(`{"0":[1,2]}`),
				[]byte(`{"items":[],"subtotal":1600,"discount":0,"total":1600}`), "UTR", "", "confirmed",
				"admin-1", created, "", created, created,
			))
		mock.ExpectQuery("FROM registration_members").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(memberCols).
				AddRow("m1", "r1", "Asha", "asha@example.com", "9876543210", "GITAM", "female", true, "AI & ML", "").
				AddRow("m2", "r1", "Ravi", "ravi@example.com", "9876543211", "GITAM", "male", false, "AI & ML", ""))

		r, err := repo.GetByID(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, r.Status)
		assert.Equal(t, domain.TicketWorkshopOnly, r.TicketKind)
		assert.Equal(t, 1600, r.Price.Total)
		assert.Equal(t, []int{1, 2}, r.PitchGroups[0].TeamMemberIndices)
		require.Len(t, r.Members, 2)
		assert.Equal(t, domain.WorkshopAI, r.Members[1].Tracks.WorkshopTrack)
		require.NotNil(t, r.ReviewedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found_mapping", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("SELECT").WithArgs("none").WillReturnError(sql.ErrNoRows)

		r, err := repo.GetByID(context.Background(), "none")
		assert.Nil(t, r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registration not found")
	})

	t.Run("invalid_status_in_db", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("FROM registrations").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows(regCols).AddRow(
				"r1", "user-1", "Team", "combo", "individual", []byte(`{}`), []byte(`{}`), "", "", "archived",
				"", nil, "", created, created,
			))

		_, err := repo.GetByID(context.Background(), "r1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status in db")
	})
}

func TestRepo_List(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM registrations WHERE TRUE AND status = \\$1 AND ticket_kind = \\$2").
		WithArgs("pending", "combo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery("ORDER BY created_at DESC, id DESC\\s+LIMIT \\$3 OFFSET \\$4").
		WithArgs("pending", "combo", 20, 20).
		WillReturnRows(sqlmock.NewRows(regCols).AddRow(
			"r9", "user-9", "Team", "combo", "individual", []byte(`{}`), []byte(`{"total":950}`), "", "", "pending",
			"", nil, "", created, created,
		))
	mock.ExpectQuery("FROM registration_members").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow("m1", "r9", "Kiran", "kiran@example.com", "9876543210", "GITAM", "other", false, "Cloud Computing", "Hackathon"))

	out, total, err := repo.List(context.Background(), registration.ListFilter{
		Status: domain.StatusPending, TicketKind: domain.TicketCombo, Page: 2, PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 41, total)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Members, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_UpdateStatus(t *testing.T) {
	t.Run("not_found_when_no_rows", func(t *testing.T) {
		repo, mock := newMock(t)
		reg := sampleRegistration(t)
		mock.ExpectExec("UPDATE registrations SET").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), reg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registration not found")
	})

	t.Run("writes_review", func(t *testing.T) {
		repo, mock := newMock(t)
		reg := sampleRegistration(t)
		require.NoError(t, reg.Reject("admin-1", "no payment", reg.CreatedAt))

		mock.ExpectExec("UPDATE registrations SET").
			WithArgs(reg.ID, "rejected", "admin-1", reg.ReviewedAt, "no payment", reg.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), reg))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepo_StatusTotals(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("GROUP BY r.status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "teams", "participants", "amount"}).
			AddRow("confirmed", 3, 9, 7000).
			AddRow("pending", 1, 2, 1830))

	totals, err := repo.StatusTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, domain.StatusConfirmed, totals[0].Status)
	assert.Equal(t, 7000, totals[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Notifications(t *testing.T) {
	created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{"id", "title", "message", "url", "channels", "audience", "user_ids", "status", "created_by", "created_at", "sent_at", "report"}

	t.Run("get_maps_arrays_and_report", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("FROM notifications\\s+WHERE id =").
			WithArgs("n1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				"n1", "Venue", "Hall B", "", "{in_app,email}", "all", "{}", "sent", "admin-1", created, created,
				[]byte(`{"recipients":2,"channels":{"email":{"sent":1,"failed":1,"skipped":0}}}`),
			))

		n, err := repo.GetNotification(context.Background(), "n1")
		require.NoError(t, err)
		assert.Equal(t, []domain.Channel{domain.ChannelInApp, domain.ChannelEmail}, n.Channels)
		require.NotNil(t, n.Report)
		assert.Equal(t, 2, n.Report.Recipients)
		assert.Equal(t, 1, n.Report.Channels[domain.ChannelEmail].Failed)
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("FROM notifications").WillReturnError(sql.ErrNoRows)
		_, err := repo.GetNotification(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "notification not found")
	})

	t.Run("create_draft", func(t *testing.T) {
		repo, mock := newMock(t)
		n, err := domain.NewNotification("admin-1", "Venue", "Hall B", "", []domain.Channel{domain.ChannelPush}, domain.AudienceAll, nil, created)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO notifications").
			WithArgs(n.ID, "Venue", "Hall B", "", sqlmock.AnyArg(), "all", sqlmock.AnyArg(), "draft", "admin-1", created, nil, nil).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.CreateNotification(context.Background(), n))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepo_Recipients(t *testing.T) {
	t.Run("participants_use_team_leader", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("DISTINCT ON \\(r.user_id\\)").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email"}).
				AddRow("u1", "Asha", "asha@example.com"))

		rs, err := repo.Recipients(context.Background(), domain.AudienceParticipants, nil)
		require.NoError(t, err)
		assert.Equal(t, []domain.Recipient{{UserID: "u1", Name: "Asha", Email: "asha@example.com"}}, rs)
	})

	t.Run("explicit_users", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("WHERE id = ANY").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("u2", "Ravi", "ravi@example.com"))

		rs, err := repo.Recipients(context.Background(), domain.AudienceUsers, []string{"u2"})
		require.NoError(t, err)
		assert.Len(t, rs, 1)
	})

	t.Run("unknown_audience", func(t *testing.T) {
		repo, _ := newMock(t)
		_, err := repo.Recipients(context.Background(), "everyone", nil)
		require.Error(t, err)
	})
}

func TestRepo_InboxAndPush(t *testing.T) {
	created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("inbox_read_flag", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery("FROM inbox_items").
			WithArgs("u1", 50).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "notification_id", "title", "message", "url", "read_at", "created_at"}).
				AddRow("i1", "u1", "n1", "t", "m", "", created, created).
				AddRow("i2", "u1", "n2", "t", "m", "", nil, created))

		items, err := repo.Inbox(context.Background(), "u1", 50)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.True(t, items[0].Read)
		assert.False(t, items[1].Read)
	})

	t.Run("mark_read_not_found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec("UPDATE inbox_items").WillReturnResult(sqlmock.NewResult(0, 0))
		err := repo.MarkInboxRead(context.Background(), "u1", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inbox item not found")
	})

	t.Run("subscription_upsert", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec("ON CONFLICT \\(endpoint\\) DO UPDATE").
			WithArgs("s1", "u1", "https://push/x", "p", "a").
			WillReturnResult(sqlmock.NewResult(1, 1))
		require.NoError(t, repo.SavePushSubscription(context.Background(), domain.PushSubscription{
			ID: "s1", UserID: "u1", Endpoint: "https://push/x", P256dh: "p", Auth: "a",
		}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPitchGroupsCodec(t *testing.T) {
	in := map[int]domain.PitchGroup{0: {TeamMemberIndices: []int{1, 3}}}
	b, err := encodePitchGroups(in)
	require.NoError(t, err)
	out, err := decodePitchGroups(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = decodePitchGroups([]byte(`{"x":[1]}`))
	assert.Error(t, err)
}
