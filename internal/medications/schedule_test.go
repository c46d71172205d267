package medications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleToday = "2026-06-15"

func activeMed(id, name string, times ...string) Medication {
	return Medication{
		ID:        id,
		UserID:    "user_123",
		Name:      name,
		Times:     times,
		StartDate: "2026-01-01",
		IsActive:  true,
	}
}

func TestBuildSchedule_PendingBeforeTaken(t *testing.T) {
	meds := []Medication{
		activeMed("med_a", "Lisinopril", "08:00", "20:00"),
		activeMed("med_b", "Metformin", "12:00"),
	}
	// The earliest dose of the day is taken; it must still sort below
	// every pending dose.
	takenAt := time.Date(2026, 6, 15, 8, 5, 0, 0, time.Local)
	intakes := []Intake{
		{ID: "intk_1", MedicationID: "med_a", ScheduledTime: "08:00", IntakeDate: scheduleToday, TakenAt: takenAt},
	}

	slots := BuildSchedule(meds, intakes, scheduleToday)
	require.Len(t, slots, 3)

	assert.Equal(t, "12:00", slots[0].ScheduledTime)
	assert.Equal(t, "20:00", slots[1].ScheduledTime)
	assert.False(t, slots[0].Taken)
	assert.False(t, slots[1].Taken)

	assert.Equal(t, "08:00", slots[2].ScheduledTime)
	assert.True(t, slots[2].Taken)
	require.NotNil(t, slots[2].TakenAt)
	assert.Equal(t, takenAt, *slots[2].TakenAt)
}

func TestBuildSchedule_SkipsMedicationsNotActiveToday(t *testing.T) {
	upcoming := activeMed("med_up", "Future", "08:00")
	upcoming.StartDate = "2026-07-01"

	expired := activeMed("med_ex", "Finished", "08:00")
	expired.EndDate = "2026-06-01"

	completed := activeMed("med_done", "Stopped", "08:00")
	completed.IsActive = false

	meds := []Medication{
		upcoming,
		expired,
		completed,
		activeMed("med_ok", "Current", "09:00"),
	}

	slots := BuildSchedule(meds, nil, scheduleToday)
	require.Len(t, slots, 1)
	assert.Equal(t, "med_ok", slots[0].MedicationID)
}

func TestBuildSchedule_IgnoresOtherDayIntakes(t *testing.T) {
	meds := []Medication{activeMed("med_a", "Lisinopril", "08:00")}
	intakes := []Intake{
		{ID: "intk_1", MedicationID: "med_a", ScheduledTime: "08:00", IntakeDate: "2026-06-14"},
	}

	slots := BuildSchedule(meds, intakes, scheduleToday)
	require.Len(t, slots, 1)
	assert.False(t, slots[0].Taken, "yesterday's intake must not mark today's slot")
}

func TestBuildSchedule_OneSlotPerDoseTime(t *testing.T) {
	meds := []Medication{
		activeMed("med_a", "Lisinopril", "08:00", "14:00", "20:00"),
		activeMed("med_b", "Metformin", "08:00", "20:00"),
	}
	intakes := []Intake{
		{ID: "intk_1", MedicationID: "med_a", ScheduledTime: "14:00", IntakeDate: scheduleToday},
	}

	slots := BuildSchedule(meds, intakes, scheduleToday)
	// Slot count equals the sum of dose times across active medications,
	// taken or not.
	assert.Len(t, slots, 5)
}

func TestClassifySlot_Boundaries(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 6, 15, hour, minute, 0, 0, time.Local)
	}

	// Exactly 30 minutes out on either side still counts as current.
	assert.Equal(t, WindowCurrent, ClassifySlot("12:00", at(11, 30)))
	assert.Equal(t, WindowCurrent, ClassifySlot("12:00", at(12, 0)))
	assert.Equal(t, WindowCurrent, ClassifySlot("12:00", at(12, 30)))

	assert.Equal(t, WindowUpcoming, ClassifySlot("12:00", at(11, 29)))
	assert.Equal(t, WindowOverdue, ClassifySlot("12:00", at(12, 31)))
}
