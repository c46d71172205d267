package medications

import (
	"time"
)

// Status is a medication's derived lifecycle status. It is computed fresh
// from the stored fields and the current date, never persisted.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCompleted Status = "completed"
)

// DoseWindow classifies a pending slot's urgency relative to now. Taken
// slots are never classified; taken is a status unto itself.
type DoseWindow string

const (
	WindowUpcoming DoseWindow = "upcoming"
	WindowCurrent  DoseWindow = "current"
	WindowOverdue  DoseWindow = "overdue"
)

// DueWindowMinutes is the fixed half-width of the "due now" band. It is a
// design constant, not derived from medication frequency.
const DueWindowMinutes = 30

// Medication represents a medication with its dosing schedule. Dates are
// ISO calendar strings (YYYY-MM-DD) and times of day are zero-padded
// 24-hour strings (HH:MM); both orders lexicographically.
type Medication struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`

	Name      string `json:"name"`
	Dosage    string `json:"dosage"`    // e.g., "10mg", "1 tablet"
	Frequency string `json:"frequency"` // display label, never parsed

	Times     []string `json:"times" gorm:"-"` // ["08:00", "20:00"]
	TimesJSON string   `json:"-" gorm:"type:text"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"` // empty means open-ended
	IsActive  bool   `json:"is_active" gorm:"default:true"`

	Instructions string `json:"instructions,omitempty"`
	PrescribedBy string `json:"prescribed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Intake records one completed dose event. At most one intake may exist
// per (medication, scheduled time, calendar day); Toggle is the sole
// mutator of this table.
type Intake struct {
	ID           string `json:"id" gorm:"primaryKey"`
	UserID       string `json:"user_id" gorm:"index"`
	MedicationID string `json:"medication_id" gorm:"index:idx_intake_slot"`

	ScheduledTime string    `json:"scheduled_time" gorm:"index:idx_intake_slot"` // HH:MM
	IntakeDate    string    `json:"intake_date" gorm:"index:idx_intake_slot"`    // YYYY-MM-DD
	TakenAt       time.Time `json:"taken_at"`
	Notes         string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ScheduleSlot is one (medication, time-of-day) pair for a calendar day.
// Slots are recomputed on every read and never stored.
type ScheduleSlot struct {
	MedicationID  string     `json:"medication_id"`
	Name          string     `json:"name"`
	Dosage        string     `json:"dosage"`
	ScheduledTime string     `json:"scheduled_time"`
	Taken         bool       `json:"taken"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	Instructions  string     `json:"instructions,omitempty"`
}

// ToggleResult reports the slot state after a toggle.
type ToggleResult struct {
	MedicationID  string     `json:"medication_id"`
	ScheduledTime string     `json:"scheduled_time"`
	Taken         bool       `json:"taken"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
}
