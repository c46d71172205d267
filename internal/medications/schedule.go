package medications

import (
	"sort"
	"time"

	"github.com/gmsas95/caretrack/internal/clock"
)

// BuildSchedule merges a user's medications with the day's intake records
// into a single ordered schedule: one slot per (medication, time-of-day)
// pair for every medication resolving as active today.
//
// Pending slots always surface above taken ones regardless of their time;
// within each group slots sort ascending by scheduled time. The HH:MM
// format is zero-padded, so plain string comparison is chronological.
//
// The result is a pure function of (medications, intakes, today).
func BuildSchedule(meds []Medication, intakes []Intake, today string) []ScheduleSlot {
	type slotKey struct {
		medicationID  string
		scheduledTime string
	}

	bySlot := make(map[slotKey]*Intake, len(intakes))
	for i := range intakes {
		if intakes[i].IntakeDate != today {
			continue
		}
		bySlot[slotKey{intakes[i].MedicationID, intakes[i].ScheduledTime}] = &intakes[i]
	}

	// Non-nil even when empty so the API serializes [] rather than null.
	pending := []ScheduleSlot{}
	var taken []ScheduleSlot
	for _, med := range meds {
		if ResolveStatus(&med, today) != StatusActive {
			continue
		}
		for _, at := range med.Times {
			slot := ScheduleSlot{
				MedicationID:  med.ID,
				Name:          med.Name,
				Dosage:        med.Dosage,
				ScheduledTime: at,
				Instructions:  med.Instructions,
			}
			if intake := bySlot[slotKey{med.ID, at}]; intake != nil {
				slot.Taken = true
				takenAt := intake.TakenAt
				slot.TakenAt = &takenAt
				taken = append(taken, slot)
			} else {
				pending = append(pending, slot)
			}
		}
	}

	byTime := func(slots []ScheduleSlot) func(i, j int) bool {
		return func(i, j int) bool {
			return slots[i].ScheduledTime < slots[j].ScheduledTime
		}
	}
	sort.SliceStable(pending, byTime(pending))
	sort.SliceStable(taken, byTime(taken))

	return append(pending, taken...)
}

// ClassifySlot classifies a pending slot's urgency relative to now, both
// on the same calendar day. A dose is "current" within ±DueWindowMinutes
// of its scheduled time, "upcoming" before that band, "overdue" after it.
func ClassifySlot(scheduledTime string, now time.Time) DoseWindow {
	diffMinutes := now.Hour()*60 + now.Minute() - clock.MinutesOfDay(scheduledTime)
	switch {
	case diffMinutes < -DueWindowMinutes:
		return WindowUpcoming
	case diffMinutes > DueWindowMinutes:
		return WindowOverdue
	default:
		return WindowCurrent
	}
}
