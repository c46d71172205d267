package appointments

import (
	"github.com/gmsas95/caretrack/internal/clock"
	apperrors "github.com/gmsas95/caretrack/internal/errors"
)

// ValidateRecurrence checks the recurrence fields of an appointment
// before any write. Non-recurring appointments always pass.
//
// Rules for recurring appointments:
//   - the pattern must be weekly, monthly, or custom;
//   - custom requires an end date strictly after the appointment date
//     (the "end date" is the one date a custom series runs until);
//   - weekly/monthly may omit the end date, but a supplied one must also
//     fall strictly after the appointment date.
func ValidateRecurrence(appt *Appointment) error {
	if !appt.IsRecurring {
		return nil
	}

	switch appt.RecurrencePattern {
	case RecurrenceWeekly, RecurrenceMonthly:
		if appt.RecurrenceEndDate == "" {
			return nil
		}
	case RecurrenceCustom:
		if appt.RecurrenceEndDate == "" {
			return apperrors.Validation("custom recurrence requires an end date")
		}
	case "":
		return apperrors.Validation("recurring appointment requires a recurrence pattern")
	default:
		return apperrors.Validation("recurrence pattern must be weekly, monthly, or custom")
	}

	if !clock.ValidDate(appt.RecurrenceEndDate) {
		return apperrors.Validation("invalid recurrence end date, expected YYYY-MM-DD")
	}
	if appt.RecurrenceEndDate <= appt.Date {
		return apperrors.Validation("recurrence end date must be after the appointment date")
	}
	return nil
}
