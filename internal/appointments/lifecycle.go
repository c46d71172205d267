package appointments

// Lifecycle predicates. All date comparisons are date-only: an
// appointment earlier today stays editable and reactivatable until
// midnight, matching a calendar-day mental model rather than a
// precise-instant one.

// CanEdit reports whether an appointment may still be edited. It depends
// only on the date: a cancelled appointment dated tomorrow is editable, a
// cancelled one dated yesterday is not.
func CanEdit(appt *Appointment, today string) bool {
	return appt.Date >= today
}

// CanReactivate reports whether a completed appointment may be put back
// on the schedule.
func CanReactivate(appt *Appointment, today string) bool {
	return appt.Status == StatusCompleted && appt.Date >= today
}
