package medications

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store handles medication and intake persistence. Every query is scoped
// by the owning user; the store never reads or writes across owners.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new medication store.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Medication{}, &Intake{}); err != nil {
		return nil, fmt.Errorf("failed to migrate medication schemas: %w", err)
	}
	return &Store{db: db}, nil
}

func generateID(prefix string) string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return prefix + "_" + hex.EncodeToString(bytes)
}

// Medication operations

func (s *Store) CreateMedication(med *Medication) error {
	if med.ID == "" {
		med.ID = generateID("med")
	}

	serializeTimes(med)

	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	return s.db.Create(med).Error
}

func (s *Store) GetMedication(id string) (*Medication, error) {
	var med Medication
	err := s.db.Where("id = ?", id).First(&med).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	deserializeTimes(&med)
	return &med, nil
}

func (s *Store) UpdateMedication(med *Medication) error {
	serializeTimes(med)

	med.UpdatedAt = time.Now()
	return s.db.Save(med).Error
}

func (s *Store) DeleteMedication(id string) error {
	return s.db.Where("id = ?", id).Delete(&Medication{}).Error
}

func (s *Store) ListMedications(userID string) ([]Medication, error) {
	var meds []Medication
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&meds).Error
	if err != nil {
		return nil, err
	}

	for i := range meds {
		deserializeTimes(&meds[i])
	}
	return meds, nil
}

// ListAllMedications returns every medication across users. Used only by
// the reminder runner's dose sweep.
func (s *Store) ListAllMedications() ([]Medication, error) {
	var meds []Medication
	err := s.db.Order("user_id").Find(&meds).Error
	if err != nil {
		return nil, err
	}

	for i := range meds {
		deserializeTimes(&meds[i])
	}
	return meds, nil
}

// Intake operations

func (s *Store) CreateIntake(intake *Intake) error {
	if intake.ID == "" {
		intake.ID = generateID("intk")
	}
	intake.CreatedAt = time.Now()
	return s.db.Create(intake).Error
}

func (s *Store) DeleteIntake(id string) error {
	return s.db.Where("id = ?", id).Delete(&Intake{}).Error
}

// FindIntake returns the intake for one schedule slot on one calendar day,
// or nil when the slot has not been taken.
func (s *Store) FindIntake(userID, medicationID, scheduledTime, date string) (*Intake, error) {
	var intake Intake
	err := s.db.Where(
		"user_id = ? AND medication_id = ? AND scheduled_time = ? AND intake_date = ?",
		userID, medicationID, scheduledTime, date,
	).First(&intake).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &intake, nil
}

// ListIntakesForDay returns all of a user's intakes for one calendar day.
func (s *Store) ListIntakesForDay(userID, date string) ([]Intake, error) {
	var intakes []Intake
	err := s.db.Where("user_id = ? AND intake_date = ?", userID, date).
		Order("scheduled_time ASC").
		Find(&intakes).Error
	return intakes, err
}

func serializeTimes(med *Medication) {
	if len(med.Times) > 0 {
		timesJSON, _ := json.Marshal(med.Times)
		med.TimesJSON = string(timesJSON)
	}
}

func deserializeTimes(med *Medication) {
	if med.TimesJSON != "" {
		json.Unmarshal([]byte(med.TimesJSON), &med.Times)
	}
}
