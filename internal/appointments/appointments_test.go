package appointments

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gmsas95/caretrack/internal/clock"
	apperrors "github.com/gmsas95/caretrack/internal/errors"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)

func setupTestDB(t *testing.T) *gorm.DB {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{})
	require.NoError(t, err)
	return db
}

func setupTestService(t *testing.T) *Service {
	db := setupTestDB(t)
	logger, _ := zap.NewDevelopment()

	svc, err := NewService(db, clock.NewFixed(testNow), logger)
	require.NoError(t, err)
	return svc
}

func testAppointment(title, date string) *Appointment {
	return &Appointment{
		Title: title,
		Type:  TypeConsultation,
		Date:  date,
		Time:  "10:00",
	}
}

func TestService_Create(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Cardiology checkup", "2026-06-20")
	require.NoError(t, svc.Create("user_123", appt, nil))
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, StatusScheduled, appt.Status)

	retrieved, err := svc.Get("user_123", appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology checkup", retrieved.Title)
}

func TestService_Create_Validation(t *testing.T) {
	svc := setupTestService(t)

	cases := []struct {
		name string
		appt *Appointment
	}{
		{"missing title", testAppointment("  ", "2026-06-20")},
		{"bad type", &Appointment{Title: "Visit", Type: "surgery", Date: "2026-06-20"}},
		{"bad date", &Appointment{Title: "Visit", Type: TypeTest, Date: "20/06/2026"}},
		{"bad time", &Appointment{Title: "Visit", Type: TypeTest, Date: "2026-06-20", Time: "25:00"}},
		{"custom recurrence without end date", func() *Appointment {
			a := testAppointment("Visit", "2026-06-20")
			a.IsRecurring = true
			a.RecurrencePattern = RecurrenceCustom
			return a
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create("user_123", tc.appt, nil)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestService_Update_LockedWhenPast(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Blood panel", "2026-06-10")
	require.NoError(t, svc.Create("user_123", appt, nil))

	updated := testAppointment("Blood panel (fasting)", "2026-06-10")
	_, err := svc.Update("user_123", appt.ID, updated, nil)
	assert.ErrorIs(t, err, apperrors.ErrAppointmentLocked)
}

func TestService_Update_EditableToday(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Blood panel", "2026-06-15")
	require.NoError(t, svc.Create("user_123", appt, nil))

	updated := testAppointment("Blood panel (fasting)", "2026-06-15")
	updated.Lab = "Central Lab"

	result, err := svc.Update("user_123", appt.ID, updated, nil)
	require.NoError(t, err)
	assert.Equal(t, "Blood panel (fasting)", result.Title)
	assert.Equal(t, "Central Lab", result.Lab)
}

func TestService_CompleteAndReactivate(t *testing.T) {
	svc := setupTestService(t)

	// Scenario: completed today can come back; completed yesterday cannot.
	today := testAppointment("Follow-up", "2026-06-15")
	require.NoError(t, svc.Create("user_123", today, nil))

	completed, err := svc.Complete("user_123", today.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)

	restored, err := svc.Reactivate("user_123", today.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, restored.Status)

	past := testAppointment("Old visit", "2026-06-14")
	require.NoError(t, svc.Create("user_123", past, nil))
	_, err = svc.Complete("user_123", past.ID)
	require.NoError(t, err)

	_, err = svc.Reactivate("user_123", past.ID)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_Reactivate_RequiresCompleted(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Visit", "2026-06-20")
	require.NoError(t, svc.Create("user_123", appt, nil))

	_, err := svc.Cancel("user_123", appt.ID)
	require.NoError(t, err)

	_, err = svc.Reactivate("user_123", appt.ID)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_List_Partitions(t *testing.T) {
	svc := setupTestService(t)

	upcoming := testAppointment("Upcoming", "2026-06-20")
	require.NoError(t, svc.Create("user_123", upcoming, nil))

	past := testAppointment("Past", "2026-06-10")
	require.NoError(t, svc.Create("user_123", past, nil))

	// Future-dated but cancelled: past, not upcoming.
	cancelled := testAppointment("Cancelled", "2026-06-25")
	require.NoError(t, svc.Create("user_123", cancelled, nil))
	_, err := svc.Cancel("user_123", cancelled.ID)
	require.NoError(t, err)

	got, err := svc.List("user_123", "upcoming")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Upcoming", got[0].Title)

	got, err = svc.List("user_123", "past")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = svc.List("user_123", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = svc.List("user_123", "bogus")
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_Chain(t *testing.T) {
	svc := setupTestService(t)

	first := testAppointment("Initial consult", "2026-05-01")
	require.NoError(t, svc.Create("user_123", first, nil))

	second := testAppointment("Follow-up", "2026-06-01")
	second.Type = TypeFollowUp
	second.PreviousAppointmentID = first.ID
	require.NoError(t, svc.Create("user_123", second, nil))

	third := testAppointment("Second follow-up", "2026-07-01")
	third.Type = TypeFollowUp
	third.PreviousAppointmentID = second.ID
	require.NoError(t, svc.Create("user_123", third, nil))

	chain, err := svc.Chain("user_123", third.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, third.ID, chain[0].ID)
	assert.Equal(t, second.ID, chain[1].ID)
	assert.Equal(t, first.ID, chain[2].ID)
}

func TestService_Chain_StopsAtMissingAncestor(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Follow-up", "2026-06-20")
	appt.PreviousAppointmentID = "appt_missing"
	require.NoError(t, svc.Create("user_123", appt, nil))

	chain, err := svc.Chain("user_123", appt.ID)
	require.NoError(t, err)
	require.Len(t, chain, 1)
}

func TestService_Documents_ReplaceFullSet(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Blood panel", "2026-06-20")
	require.NoError(t, svc.Create("user_123", appt, []string{"doc_1", "doc_2"}))

	docs, err := svc.Documents("user_123", appt.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Update replaces the whole set, not a diff.
	updated := testAppointment("Blood panel", "2026-06-20")
	_, err = svc.Update("user_123", appt.ID, updated, []string{"doc_3"})
	require.NoError(t, err)

	docs, err = svc.Documents("user_123", appt.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc_3", docs[0].DocumentID)
}

func TestService_Update_LinkFailureLeavesAppointmentUpdated(t *testing.T) {
	db := setupTestDB(t)
	logger, _ := zap.NewDevelopment()
	svc, err := NewService(db, clock.NewFixed(testNow), logger)
	require.NoError(t, err)

	appt := testAppointment("Blood panel", "2026-06-20")
	require.NoError(t, svc.Create("user_123", appt, []string{"doc_1"}))

	// Break the link table so the document rewrite fails after the
	// appointment write succeeds.
	require.NoError(t, db.Migrator().DropTable(&Document{}))

	updated := testAppointment("Blood panel (fasting)", "2026-06-20")
	result, err := svc.Update("user_123", appt.ID, updated, []string{"doc_2"})

	// The link failure is logged, not escalated: the update stands.
	require.NoError(t, err)
	assert.Equal(t, "Blood panel (fasting)", result.Title)

	stored, err := svc.Get("user_123", appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blood panel (fasting)", stored.Title)
}

func TestService_OwnershipEnforced(t *testing.T) {
	svc := setupTestService(t)

	appt := testAppointment("Visit", "2026-06-20")
	require.NoError(t, svc.Create("user_123", appt, nil))

	_, err := svc.Get("user_456", appt.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Get("user_123", "appt_missing")
	assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)
}
