package appointments

import (
	"time"
)

// Type categorizes an appointment.
type Type string

const (
	TypeConsultation Type = "consultation"
	TypeTest         Type = "test"
	TypeFollowUp     Type = "followup"
)

// Status is an appointment's lifecycle state. "rescheduled" is reserved:
// it can appear via direct data mutation, but no operation here produces
// it.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// RecurrencePattern is the cadence of a repeating appointment series.
type RecurrencePattern string

const (
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceCustom  RecurrencePattern = "custom"
)

// Appointment represents a medical appointment. The date is an ISO
// calendar string (YYYY-MM-DD) and the time of day a zero-padded HH:MM
// string, matching the medication wire format.
type Appointment struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`

	Title string `json:"title"`
	Type  Type   `json:"type"`

	Date string `json:"date"`
	Time string `json:"time,omitempty"` // HH:MM, display and reminders only

	Status Status `json:"status" gorm:"default:scheduled"`

	// Recurrence. RecurrenceEndDate doubles as the custom pattern's one
	// mandatory date.
	IsRecurring       bool              `json:"is_recurring"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate string            `json:"recurrence_end_date,omitempty"`

	// Chain linkage for follow-up tracking. Read-only traversal; never
	// mutated by lifecycle operations.
	PreviousAppointmentID string `json:"previous_appointment_id,omitempty" gorm:"index"`

	Location string `json:"location,omitempty"`
	Doctor   string `json:"doctor,omitempty"`
	Lab      string `json:"lab,omitempty"`
	Notes    string `json:"notes,omitempty"`

	// Reminder flags, owned exclusively by the reminder runner.
	DayBeforeReminderSent  bool `json:"day_before_reminder_sent"`
	HourBeforeReminderSent bool `json:"hour_before_reminder_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document links an appointment to an uploaded document. Links carry
// replace-full-set semantics: every update rewrites the complete set.
type Document struct {
	ID            string `json:"id" gorm:"primaryKey"`
	UserID        string `json:"user_id" gorm:"index"`
	AppointmentID string `json:"appointment_id" gorm:"index"`
	DocumentID    string `json:"document_id"`

	CreatedAt time.Time `json:"created_at"`
}
