package api

// medicationRequest is the create/update payload for a medication.
type medicationRequest struct {
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Times        []string `json:"times"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Instructions string   `json:"instructions"`
	PrescribedBy string   `json:"prescribed_by"`
}

// appointmentRequest is the create/update payload for an appointment.
type appointmentRequest struct {
	Title                 string   `json:"title"`
	Type                  string   `json:"type"`
	Date                  string   `json:"date"`
	Time                  string   `json:"time"`
	IsRecurring           bool     `json:"is_recurring"`
	RecurrencePattern     string   `json:"recurrence_pattern"`
	RecurrenceEndDate     string   `json:"recurrence_end_date"`
	PreviousAppointmentID string   `json:"previous_appointment_id"`
	Location              string   `json:"location"`
	Doctor                string   `json:"doctor"`
	Lab                   string   `json:"lab"`
	Notes                 string   `json:"notes"`
	DocumentIDs           []string `json:"document_ids"`
}

// toggleRequest flips one schedule slot.
type toggleRequest struct {
	MedicationID  string `json:"medication_id"`
	ScheduledTime string `json:"scheduled_time"`
}
