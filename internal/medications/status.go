package medications

// ResolveStatus derives a medication's lifecycle status from its stored
// fields and the current calendar date (YYYY-MM-DD).
//
// The evaluation order matters: a manually completed medication stays
// completed even when its date window would say active. Completion is a
// user decision and takes priority over time-derived status.
func ResolveStatus(med *Medication, today string) Status {
	if !med.IsActive {
		return StatusCompleted
	}
	if today < med.StartDate {
		return StatusUpcoming
	}
	if med.EndDate != "" && today > med.EndDate {
		return StatusExpired
	}
	return StatusActive
}
