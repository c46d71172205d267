package appointments

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store handles appointment and document-link persistence. Every query is
// scoped by the owning user.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new appointment store.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Appointment{}, &Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate appointment schemas: %w", err)
	}
	return &Store{db: db}, nil
}

func generateID(prefix string) string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return prefix + "_" + hex.EncodeToString(bytes)
}

// Appointment operations

func (s *Store) CreateAppointment(appt *Appointment) error {
	if appt.ID == "" {
		appt.ID = generateID("appt")
	}
	if appt.Status == "" {
		appt.Status = StatusScheduled
	}
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()
	return s.db.Create(appt).Error
}

func (s *Store) GetAppointment(id string) (*Appointment, error) {
	var appt Appointment
	err := s.db.Where("id = ?", id).First(&appt).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *Store) UpdateAppointment(appt *Appointment) error {
	appt.UpdatedAt = time.Now()
	return s.db.Save(appt).Error
}

func (s *Store) DeleteAppointment(id string) error {
	return s.db.Where("id = ?", id).Delete(&Appointment{}).Error
}

// ListAppointments returns all of a user's appointments ordered by date,
// then time of day. Both columns are zero-padded strings, so the string
// sort is chronological.
func (s *Store) ListAppointments(userID string) ([]Appointment, error) {
	var appts []Appointment
	err := s.db.Where("user_id = ?", userID).
		Order("date ASC, time ASC").
		Find(&appts).Error
	return appts, err
}

// ListDayBeforeDue returns scheduled appointments on one calendar day,
// across all users, whose day-before reminder has not been sent. Used
// only by the reminder runner.
func (s *Store) ListDayBeforeDue(date string) ([]Appointment, error) {
	var appts []Appointment
	err := s.db.Where("date = ? AND status = ? AND day_before_reminder_sent = ?",
		date, StatusScheduled, false).
		Find(&appts).Error
	return appts, err
}

// ListHourBeforeDue returns scheduled appointments on one calendar day,
// across all users, whose hour-before reminder has not been sent. The
// time-of-day window is the runner's concern.
func (s *Store) ListHourBeforeDue(date string) ([]Appointment, error) {
	var appts []Appointment
	err := s.db.Where("date = ? AND status = ? AND time <> ? AND hour_before_reminder_sent = ?",
		date, StatusScheduled, "", false).
		Find(&appts).Error
	return appts, err
}

// Document link operations

// ReplaceDocuments rewrites the full document-link set for one
// appointment: delete all existing links, then insert the new set. The
// two writes are independent single-table operations, not a transaction.
func (s *Store) ReplaceDocuments(userID, appointmentID string, documentIDs []string) error {
	err := s.db.Where("appointment_id = ?", appointmentID).Delete(&Document{}).Error
	if err != nil {
		return err
	}

	for _, docID := range documentIDs {
		link := Document{
			ID:            generateID("apdoc"),
			UserID:        userID,
			AppointmentID: appointmentID,
			DocumentID:    docID,
			CreatedAt:     time.Now(),
		}
		if err := s.db.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListDocuments(appointmentID string) ([]Document, error) {
	var docs []Document
	err := s.db.Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}
