// Package reminders implements the background reminder runner. It is the
// only writer of the appointment reminder flags; the lifecycle engine
// never touches them.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gmsas95/caretrack/internal/appointments"
	"github.com/gmsas95/caretrack/internal/clock"
	"github.com/gmsas95/caretrack/internal/medications"
	"github.com/gmsas95/caretrack/internal/metrics"
)

// Kind distinguishes the two reminder points of an appointment.
type Kind string

const (
	KindDayBefore  Kind = "day_before"
	KindHourBefore Kind = "hour_before"
)

// Notifier delivers a reminder. The default implementation only logs;
// push or email delivery plugs in here.
type Notifier interface {
	AppointmentReminder(appt *appointments.Appointment, kind Kind) error
}

// LogNotifier writes reminders to the structured log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) AppointmentReminder(appt *appointments.Appointment, kind Kind) error {
	n.Logger.Info("Appointment reminder",
		zap.String("appointment_id", appt.ID),
		zap.String("user_id", appt.UserID),
		zap.String("title", appt.Title),
		zap.String("date", appt.Date),
		zap.String("kind", string(kind)),
	)
	return nil
}

// Config holds reminder runner configuration.
type Config struct {
	CheckInterval int // Minutes between sweeps
}

// Runner periodically sweeps for appointments needing a reminder and for
// doses entering the due-now window.
type Runner struct {
	config   Config
	store    *appointments.Store
	meds     *medications.Store
	notifier Notifier
	clock    clock.Clock
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
	mu       sync.RWMutex

	// Slots already logged as due, reset on date rollover. Only touched
	// from the sweep goroutine.
	loggedDoses map[string]bool
	loggedDate  string
}

// NewRunner creates a new reminder runner.
func NewRunner(config Config, store *appointments.Store, meds *medications.Store, notifier Notifier, clk clock.Clock, logger *zap.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	if config.CheckInterval <= 0 {
		config.CheckInterval = 1
	}
	if notifier == nil {
		notifier = &LogNotifier{Logger: logger}
	}

	return &Runner{
		config:      config,
		store:       store,
		meds:        meds,
		notifier:    notifier,
		clock:       clk,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		loggedDoses: make(map[string]bool),
	}
}

// Start starts the background sweep loop.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("reminder runner already running")
	}

	r.running = true
	r.wg.Add(1)
	go r.run()

	return nil
}

// Stop stops the runner and waits for the current sweep to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
	r.logger.Info("Reminder runner stopped")
}

// IsRunning returns whether the runner is active.
func (r *Runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(time.Duration(r.config.CheckInterval) * time.Minute)
	defer ticker.Stop()

	// Sweep immediately on start.
	r.Sweep()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep runs one reminder pass: day-before reminders for appointments
// dated tomorrow, hour-before reminders for appointments later today
// whose time falls within the next hour, and a log line for each pending
// dose entering the due-now window. Exported for tests and for a manual
// trigger.
func (r *Runner) Sweep() {
	today := r.clock.Today()

	if today != r.loggedDate {
		r.loggedDoses = make(map[string]bool)
		r.loggedDate = today
	}

	r.sweepDayBefore(clock.AddDays(today, 1))
	r.sweepHourBefore(today)
	r.sweepDoses(today)
}

func (r *Runner) sweepDayBefore(tomorrow string) {
	appts, err := r.store.ListDayBeforeDue(tomorrow)
	if err != nil {
		r.logger.Error("Failed to list day-before reminders", zap.Error(err))
		return
	}

	for i := range appts {
		r.send(&appts[i], KindDayBefore)
	}
}

func (r *Runner) sweepHourBefore(today string) {
	appts, err := r.store.ListHourBeforeDue(today)
	if err != nil {
		r.logger.Error("Failed to list hour-before reminders", zap.Error(err))
		return
	}

	nowMinutes := r.clock.Now().Hour()*60 + r.clock.Now().Minute()
	for i := range appts {
		diff := clock.MinutesOfDay(appts[i].Time) - nowMinutes
		if diff < 0 || diff > 60 {
			continue
		}
		r.send(&appts[i], KindHourBefore)
	}
}

// sweepDoses logs each pending dose the moment it enters the due-now
// window. Doses already taken, or already logged today, stay quiet.
func (r *Runner) sweepDoses(today string) {
	meds, err := r.meds.ListAllMedications()
	if err != nil {
		r.logger.Error("Failed to list medications for dose sweep", zap.Error(err))
		return
	}

	byUser := make(map[string][]medications.Medication)
	for _, med := range meds {
		byUser[med.UserID] = append(byUser[med.UserID], med)
	}

	now := r.clock.Now()
	for userID, userMeds := range byUser {
		intakes, err := r.meds.ListIntakesForDay(userID, today)
		if err != nil {
			r.logger.Error("Failed to list intakes for dose sweep",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			continue
		}

		for _, slot := range medications.BuildSchedule(userMeds, intakes, today) {
			if slot.Taken {
				continue
			}
			if medications.ClassifySlot(slot.ScheduledTime, now) != medications.WindowCurrent {
				continue
			}

			key := slot.MedicationID + "|" + slot.ScheduledTime
			if r.loggedDoses[key] {
				continue
			}
			r.loggedDoses[key] = true

			r.logger.Info("Dose due now",
				zap.String("user_id", userID),
				zap.String("medication_id", slot.MedicationID),
				zap.String("name", slot.Name),
				zap.String("scheduled_time", slot.ScheduledTime),
			)
		}
	}
}

// send delivers one reminder and marks its flag. The flag is written
// even when delivery fails: a broken notifier must not retry forever.
func (r *Runner) send(appt *appointments.Appointment, kind Kind) {
	if err := r.notifier.AppointmentReminder(appt, kind); err != nil {
		r.logger.Error("Failed to deliver reminder",
			zap.String("appointment_id", appt.ID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	switch kind {
	case KindDayBefore:
		appt.DayBeforeReminderSent = true
	case KindHourBefore:
		appt.HourBeforeReminderSent = true
	}
	metrics.Default().RecordReminderSent()

	if err := r.store.UpdateAppointment(appt); err != nil {
		r.logger.Error("Failed to mark reminder sent",
			zap.String("appointment_id", appt.ID),
			zap.Error(err),
		)
	}
}
