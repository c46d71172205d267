// Package medications implements the medication side of the care
// schedule engine: lifecycle status, the daily dose schedule, and the
// intake toggle.
package medications

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gmsas95/caretrack/internal/clock"
	apperrors "github.com/gmsas95/caretrack/internal/errors"
)

// Service exposes medication operations scoped to one caller.
type Service struct {
	store  *Store
	clock  clock.Clock
	logger *zap.Logger
}

// NewService creates a new medication service.
func NewService(db *gorm.DB, clk clock.Clock, logger *zap.Logger) (*Service, error) {
	store, err := NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication store: %w", err)
	}

	return &Service{
		store:  store,
		clock:  clk,
		logger: logger,
	}, nil
}

// Store returns the underlying store. Used by the stats service, which
// aggregates over raw records.
func (s *Service) Store() *Store {
	return s.store
}

// Now reports the service clock's current instant. The API layer uses it
// to classify pending slots.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// MedicationWithStatus pairs a medication with its derived status.
type MedicationWithStatus struct {
	Medication
	Status Status `json:"status"`
}

// Create validates and persists a new medication for the caller.
func (s *Service) Create(userID string, med *Medication) error {
	if err := validateMedication(med); err != nil {
		return err
	}

	med.UserID = userID
	if err := s.store.CreateMedication(med); err != nil {
		return apperrors.Store("create medication", err)
	}

	s.logger.Info("Medication added",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
	)
	return nil
}

// Get returns one of the caller's medications.
func (s *Service) Get(userID, id string) (*Medication, error) {
	return s.getOwned(userID, id)
}

// List returns all of the caller's medications, each with its status
// resolved against today.
func (s *Service) List(userID string) ([]MedicationWithStatus, error) {
	meds, err := s.store.ListMedications(userID)
	if err != nil {
		return nil, apperrors.Store("list medications", err)
	}

	today := s.clock.Today()
	result := make([]MedicationWithStatus, 0, len(meds))
	for _, med := range meds {
		result = append(result, MedicationWithStatus{
			Medication: med,
			Status:     ResolveStatus(&med, today),
		})
	}
	return result, nil
}

// Update replaces the editable fields of one of the caller's medications.
func (s *Service) Update(userID, id string, updated *Medication) (*Medication, error) {
	if err := validateMedication(updated); err != nil {
		return nil, err
	}

	med, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	med.Name = updated.Name
	med.Dosage = updated.Dosage
	med.Frequency = updated.Frequency
	med.Times = updated.Times
	med.StartDate = updated.StartDate
	med.EndDate = updated.EndDate
	med.Instructions = updated.Instructions
	med.PrescribedBy = updated.PrescribedBy

	if err := s.store.UpdateMedication(med); err != nil {
		return nil, apperrors.Store("update medication", err)
	}
	return med, nil
}

// Delete removes one of the caller's medications.
func (s *Service) Delete(userID, id string) error {
	med, err := s.getOwned(userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMedication(med.ID); err != nil {
		return apperrors.Store("delete medication", err)
	}

	s.logger.Info("Medication deleted",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
	)
	return nil
}

// Complete marks a medication as completed. Completion is a user
// decision: the medication stays completed even while its date window
// would otherwise resolve as active.
func (s *Service) Complete(userID, id string) (*Medication, error) {
	return s.setActive(userID, id, false)
}

// Reactivate puts a completed medication back under date-derived status.
func (s *Service) Reactivate(userID, id string) (*Medication, error) {
	return s.setActive(userID, id, true)
}

func (s *Service) setActive(userID, id string, active bool) (*Medication, error) {
	med, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	med.IsActive = active
	if err := s.store.UpdateMedication(med); err != nil {
		return nil, apperrors.Store("update medication", err)
	}
	return med, nil
}

// TodaySchedule returns the caller's dose schedule for today. On a store
// read failure the schedule degrades to empty rather than failing the
// dashboard; write paths never degrade this way.
func (s *Service) TodaySchedule(userID string) []ScheduleSlot {
	today := s.clock.Today()

	meds, err := s.store.ListMedications(userID)
	if err != nil {
		s.logger.Error("Failed to list medications for schedule", zap.Error(err))
		return []ScheduleSlot{}
	}

	intakes, err := s.store.ListIntakesForDay(userID, today)
	if err != nil {
		s.logger.Error("Failed to list intakes for schedule", zap.Error(err))
		return []ScheduleSlot{}
	}

	return BuildSchedule(meds, intakes, today)
}

// Toggle flips one schedule slot between taken and pending for today.
// No intake for the slot: one is created with taken_at = now. An intake
// exists: it is deleted.
//
// Toggle is a flip, not a set: retrying the same request flips the slot
// back. Callers must read current state before toggling, or accept a
// possible double-flip under duplicate submission.
func (s *Service) Toggle(userID, medicationID, scheduledTime string) (*ToggleResult, error) {
	med, err := s.getOwned(userID, medicationID)
	if err != nil {
		return nil, err
	}

	if !containsTime(med.Times, scheduledTime) {
		return nil, apperrors.Validation(fmt.Sprintf("%q is not a scheduled time for this medication", scheduledTime))
	}

	today := s.clock.Today()
	existing, err := s.store.FindIntake(userID, med.ID, scheduledTime, today)
	if err != nil {
		return nil, apperrors.Store("find intake", err)
	}

	if existing == nil {
		intake := &Intake{
			UserID:        userID,
			MedicationID:  med.ID,
			ScheduledTime: scheduledTime,
			IntakeDate:    today,
			TakenAt:       s.clock.Now(),
		}
		if err := s.store.CreateIntake(intake); err != nil {
			return nil, apperrors.Store("create intake", err)
		}

		takenAt := intake.TakenAt
		return &ToggleResult{
			MedicationID:  med.ID,
			ScheduledTime: scheduledTime,
			Taken:         true,
			TakenAt:       &takenAt,
		}, nil
	}

	if err := s.store.DeleteIntake(existing.ID); err != nil {
		return nil, apperrors.Store("delete intake", err)
	}

	return &ToggleResult{
		MedicationID:  med.ID,
		ScheduledTime: scheduledTime,
		Taken:         false,
	}, nil
}

func (s *Service) getOwned(userID, id string) (*Medication, error) {
	med, err := s.store.GetMedication(id)
	if err != nil {
		return nil, apperrors.Store("get medication", err)
	}
	if med == nil {
		return nil, apperrors.ErrMedicationNotFound
	}
	if med.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return med, nil
}

func validateMedication(med *Medication) error {
	if strings.TrimSpace(med.Name) == "" {
		return apperrors.Validation("medication name is required")
	}
	if len(med.Times) == 0 {
		return apperrors.Validation("at least one dose time is required")
	}
	for _, at := range med.Times {
		if !clock.ValidTime(at) {
			return apperrors.Validation(fmt.Sprintf("invalid dose time %q, expected HH:MM", at))
		}
	}
	if !clock.ValidDate(med.StartDate) {
		return apperrors.Validation("invalid start date, expected YYYY-MM-DD")
	}
	if med.EndDate != "" {
		if !clock.ValidDate(med.EndDate) {
			return apperrors.Validation("invalid end date, expected YYYY-MM-DD")
		}
		if med.EndDate < med.StartDate {
			return apperrors.Validation("end date must not be before start date")
		}
	}
	return nil
}

func containsTime(times []string, at string) bool {
	for _, t := range times {
		if t == at {
			return true
		}
	}
	return false
}
