// Package stats builds the dashboard rollup from the medication and
// appointment stores.
package stats

import (
	"go.uber.org/zap"

	"github.com/gmsas95/caretrack/internal/appointments"
	"github.com/gmsas95/caretrack/internal/clock"
	"github.com/gmsas95/caretrack/internal/medications"
)

// Dashboard is the aggregate view rendered on the home screen. All
// counts are recomputed on every read.
type Dashboard struct {
	Medications struct {
		Total     int `json:"total"`
		Active    int `json:"active"`
		Completed int `json:"completed"`
	} `json:"medications"`

	DosesToday struct {
		Taken int `json:"taken"`
		Total int `json:"total"`
	} `json:"doses_today"`

	Appointments struct {
		Total    int `json:"total"`
		Upcoming int `json:"upcoming"`
		Past     int `json:"past"`
	} `json:"appointments"`
}

// Service aggregates over the raw medication and appointment records.
type Service struct {
	meds   *medications.Store
	appts  *appointments.Store
	clock  clock.Clock
	logger *zap.Logger
}

// NewService creates a new stats service on top of the existing stores.
func NewService(meds *medications.Store, appts *appointments.Store, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{
		meds:   meds,
		appts:  appts,
		clock:  clk,
		logger: logger,
	}
}

// Build computes the caller's dashboard. Each section degrades to zeros
// on a store read failure rather than failing the whole dashboard.
func (s *Service) Build(userID string) *Dashboard {
	today := s.clock.Today()
	dash := &Dashboard{}

	meds, err := s.meds.ListMedications(userID)
	if err != nil {
		s.logger.Error("Failed to list medications for stats", zap.Error(err))
		meds = nil
	}

	intakes, err := s.meds.ListIntakesForDay(userID, today)
	if err != nil {
		s.logger.Error("Failed to list intakes for stats", zap.Error(err))
		intakes = nil
	}

	appts, err := s.appts.ListAppointments(userID)
	if err != nil {
		s.logger.Error("Failed to list appointments for stats", zap.Error(err))
		appts = nil
	}

	dash.Medications.Total = len(meds)
	for i := range meds {
		switch medications.ResolveStatus(&meds[i], today) {
		// Dashboard "active" includes not-yet-started medications: they
		// are part of the current regimen even before their first dose.
		case medications.StatusActive, medications.StatusUpcoming:
			dash.Medications.Active++
		case medications.StatusCompleted:
			dash.Medications.Completed++
		}
	}

	schedule := medications.BuildSchedule(meds, intakes, today)
	dash.DosesToday.Total = len(schedule)
	for _, slot := range schedule {
		if slot.Taken {
			dash.DosesToday.Taken++
		}
	}

	dash.Appointments.Total = len(appts)
	for i := range appts {
		if appointments.IsUpcoming(&appts[i], today) {
			dash.Appointments.Upcoming++
		}
		if appointments.IsPast(&appts[i], today) {
			dash.Appointments.Past++
		}
	}

	return dash
}
