// Package appointments implements the appointment side of the care
// schedule engine: lifecycle transitions, recurrence validation, document
// links, and follow-up chains.
package appointments

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gmsas95/caretrack/internal/clock"
	apperrors "github.com/gmsas95/caretrack/internal/errors"
)

// chainLimit caps follow-up chain traversal so a corrupted linkage cycle
// cannot loop forever.
const chainLimit = 50

// Service exposes appointment operations scoped to one caller.
type Service struct {
	store  *Store
	clock  clock.Clock
	logger *zap.Logger
}

// NewService creates a new appointment service.
func NewService(db *gorm.DB, clk clock.Clock, logger *zap.Logger) (*Service, error) {
	store, err := NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment store: %w", err)
	}

	return &Service{
		store:  store,
		clock:  clk,
		logger: logger,
	}, nil
}

// Store returns the underlying store. Used by the stats service and the
// reminder runner.
func (s *Service) Store() *Store {
	return s.store
}

// IsUpcoming reports whether an appointment belongs to the "upcoming"
// partition: still scheduled and not yet past its date.
func IsUpcoming(appt *Appointment, today string) bool {
	return appt.Status == StatusScheduled && appt.Date >= today
}

// IsPast reports whether an appointment belongs to the "past" partition.
// The partitions are deliberately not disjoint with IsUpcoming's
// complement: a future-dated cancelled appointment counts as past. That
// framing is intentional, not a defect.
func IsPast(appt *Appointment, today string) bool {
	return appt.Date < today ||
		appt.Status == StatusCompleted ||
		appt.Status == StatusCancelled
}

// Create validates and persists a new appointment, then writes its
// document links. A link failure after the appointment write is logged
// and the appointment stands.
func (s *Service) Create(userID string, appt *Appointment, documentIDs []string) error {
	if err := validateAppointment(appt); err != nil {
		return err
	}
	if err := ValidateRecurrence(appt); err != nil {
		return err
	}

	appt.UserID = userID
	appt.Status = StatusScheduled
	if err := s.store.CreateAppointment(appt); err != nil {
		return apperrors.Store("create appointment", err)
	}

	s.replaceDocuments(userID, appt.ID, documentIDs)

	s.logger.Info("Appointment created",
		zap.String("appointment_id", appt.ID),
		zap.String("date", appt.Date),
	)
	return nil
}

// Get returns one of the caller's appointments.
func (s *Service) Get(userID, id string) (*Appointment, error) {
	return s.getOwned(userID, id)
}

// List returns the caller's appointments, optionally restricted to the
// "upcoming" or "past" partition.
func (s *Service) List(userID, filter string) ([]Appointment, error) {
	appts, err := s.store.ListAppointments(userID)
	if err != nil {
		return nil, apperrors.Store("list appointments", err)
	}

	today := s.clock.Today()
	switch filter {
	case "upcoming":
		return filterAppointments(appts, today, IsUpcoming), nil
	case "past":
		return filterAppointments(appts, today, IsPast), nil
	case "":
		return appts, nil
	default:
		return nil, apperrors.Validation("filter must be upcoming or past")
	}
}

// Update replaces the editable fields of an appointment that is still
// editable (dated today or later), then rewrites its document links.
func (s *Service) Update(userID, id string, updated *Appointment, documentIDs []string) (*Appointment, error) {
	appt, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(appt, s.clock.Today()) {
		return nil, apperrors.ErrAppointmentLocked
	}

	if err := validateAppointment(updated); err != nil {
		return nil, err
	}
	if err := ValidateRecurrence(updated); err != nil {
		return nil, err
	}

	appt.Title = updated.Title
	appt.Type = updated.Type
	appt.Date = updated.Date
	appt.Time = updated.Time
	appt.IsRecurring = updated.IsRecurring
	appt.RecurrencePattern = updated.RecurrencePattern
	appt.RecurrenceEndDate = updated.RecurrenceEndDate
	appt.Location = updated.Location
	appt.Doctor = updated.Doctor
	appt.Lab = updated.Lab
	appt.Notes = updated.Notes

	if err := s.store.UpdateAppointment(appt); err != nil {
		return nil, apperrors.Store("update appointment", err)
	}

	if documentIDs != nil {
		s.replaceDocuments(userID, appt.ID, documentIDs)
	}
	return appt, nil
}

// Delete removes one of the caller's appointments.
func (s *Service) Delete(userID, id string) error {
	appt, err := s.getOwned(userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAppointment(appt.ID); err != nil {
		return apperrors.Store("delete appointment", err)
	}
	return nil
}

// Complete marks an appointment as completed. Status gating is the
// caller's responsibility; the transition itself is unconditional.
func (s *Service) Complete(userID, id string) (*Appointment, error) {
	return s.setStatus(userID, id, StatusCompleted)
}

// Cancel marks an appointment as cancelled. Cancelled is terminal.
func (s *Service) Cancel(userID, id string) (*Appointment, error) {
	return s.setStatus(userID, id, StatusCancelled)
}

// Reactivate puts a completed, not-yet-past appointment back on the
// schedule.
func (s *Service) Reactivate(userID, id string) (*Appointment, error) {
	appt, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}
	if !CanReactivate(appt, s.clock.Today()) {
		return nil, apperrors.Validation("only a completed appointment dated today or later can be reactivated")
	}

	appt.Status = StatusScheduled
	if err := s.store.UpdateAppointment(appt); err != nil {
		return nil, apperrors.Store("update appointment", err)
	}
	return appt, nil
}

// Chain returns an appointment and its ancestors, newest first, by
// following previous_appointment_id links. Traversal is read-only and
// stops at a missing ancestor or the chain cap.
func (s *Service) Chain(userID, id string) ([]Appointment, error) {
	appt, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	chain := []Appointment{*appt}
	seen := map[string]bool{appt.ID: true}

	for appt.PreviousAppointmentID != "" && len(chain) < chainLimit {
		if seen[appt.PreviousAppointmentID] {
			s.logger.Warn("Appointment chain contains a cycle",
				zap.String("appointment_id", appt.ID),
			)
			break
		}

		prev, err := s.store.GetAppointment(appt.PreviousAppointmentID)
		if err != nil {
			return nil, apperrors.Store("get appointment", err)
		}
		if prev == nil || prev.UserID != userID {
			break
		}

		chain = append(chain, *prev)
		seen[prev.ID] = true
		appt = prev
	}
	return chain, nil
}

// Documents returns the document links for one of the caller's
// appointments.
func (s *Service) Documents(userID, id string) ([]Document, error) {
	appt, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.ListDocuments(appt.ID)
	if err != nil {
		return nil, apperrors.Store("list appointment documents", err)
	}
	return docs, nil
}

func (s *Service) setStatus(userID, id string, status Status) (*Appointment, error) {
	appt, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	appt.Status = status
	if err := s.store.UpdateAppointment(appt); err != nil {
		return nil, apperrors.Store("update appointment", err)
	}
	return appt, nil
}

// replaceDocuments rewrites the document-link set. A failure here after
// the appointment write succeeded leaves the appointment standing with
// stale links: logged, not rolled back.
func (s *Service) replaceDocuments(userID, appointmentID string, documentIDs []string) {
	if err := s.store.ReplaceDocuments(userID, appointmentID, documentIDs); err != nil {
		s.logger.Error("Failed to replace appointment document links",
			zap.String("appointment_id", appointmentID),
			zap.Error(err),
		)
	}
}

func (s *Service) getOwned(userID, id string) (*Appointment, error) {
	appt, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, apperrors.Store("get appointment", err)
	}
	if appt == nil {
		return nil, apperrors.ErrAppointmentNotFound
	}
	if appt.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return appt, nil
}

func filterAppointments(appts []Appointment, today string, keep func(*Appointment, string) bool) []Appointment {
	result := []Appointment{}
	for i := range appts {
		if keep(&appts[i], today) {
			result = append(result, appts[i])
		}
	}
	return result
}

func validateAppointment(appt *Appointment) error {
	if strings.TrimSpace(appt.Title) == "" {
		return apperrors.Validation("appointment title is required")
	}
	switch appt.Type {
	case TypeConsultation, TypeTest, TypeFollowUp:
	default:
		return apperrors.Validation("appointment type must be consultation, test, or followup")
	}
	if !clock.ValidDate(appt.Date) {
		return apperrors.Validation("invalid appointment date, expected YYYY-MM-DD")
	}
	if appt.Time != "" && !clock.ValidTime(appt.Time) {
		return apperrors.Validation("invalid appointment time, expected HH:MM")
	}
	return nil
}
