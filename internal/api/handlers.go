package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gmsas95/caretrack/internal/appointments"
	apperrors "github.com/gmsas95/caretrack/internal/errors"
	"github.com/gmsas95/caretrack/internal/medications"
	"github.com/gmsas95/caretrack/internal/metrics"
)

// writeError translates an AppError into an HTTP response.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		s.logger.Error("Unclassified handler error", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "internal error"})
	}

	status := 500
	switch appErr.Code {
	case "VALID_001":
		metrics.Default().RecordValidationFailure()
		status = 400
	case "AUTH_001":
		status = 401
	case "AUTH_002":
		status = 403
	case "MED_001", "APPT_001":
		status = 404
	case "APPT_002":
		status = 409
	default:
		s.logger.Error("Handler error", zap.String("code", appErr.Code), zap.Error(err))
	}

	return c.Status(status).JSON(fiber.Map{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// ==================== Auth ====================

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if s.config.Security.AdminPassword != "" && req.Password != s.config.Security.AdminPassword {
		return c.Status(401).JSON(fiber.Map{"error": "invalid password"})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "default",
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate token"})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}

// ==================== Medications ====================

func (r *medicationRequest) toModel() *medications.Medication {
	return &medications.Medication{
		Name:         r.Name,
		Dosage:       r.Dosage,
		Frequency:    r.Frequency,
		Times:        r.Times,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Instructions: r.Instructions,
		PrescribedBy: r.PrescribedBy,
	}
}

func (s *Server) handleListMedications(c *fiber.Ctx) error {
	meds, err := s.meds.List(userID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(meds)
}

func (s *Server) handleCreateMedication(c *fiber.Ctx) error {
	var req medicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	med := req.toModel()
	med.IsActive = true
	if err := s.meds.Create(userID(c), med); err != nil {
		return s.writeError(c, err)
	}
	return c.Status(201).JSON(med)
}

func (s *Server) handleGetMedication(c *fiber.Ctx) error {
	med, err := s.meds.Get(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(med)
}

func (s *Server) handleUpdateMedication(c *fiber.Ctx) error {
	var req medicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	med, err := s.meds.Update(userID(c), c.Params("id"), req.toModel())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(med)
}

func (s *Server) handleDeleteMedication(c *fiber.Ctx) error {
	if err := s.meds.Delete(userID(c), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(204)
}

func (s *Server) handleCompleteMedication(c *fiber.Ctx) error {
	med, err := s.meds.Complete(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(med)
}

func (s *Server) handleReactivateMedication(c *fiber.Ctx) error {
	med, err := s.meds.Reactivate(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(med)
}

// ==================== Schedule ====================

func (s *Server) handleSchedule(c *fiber.Ctx) error {
	type slotResponse struct {
		medications.ScheduleSlot
		Window medications.DoseWindow `json:"window,omitempty"`
	}

	slots := s.meds.TodaySchedule(userID(c))
	now := s.meds.Now()

	resp := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		item := slotResponse{ScheduleSlot: slot}
		if !slot.Taken {
			item.Window = medications.ClassifySlot(slot.ScheduledTime, now)
		}
		resp = append(resp, item)
	}
	return c.JSON(resp)
}

func (s *Server) handleToggle(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	result, err := s.meds.Toggle(userID(c), req.MedicationID, req.ScheduledTime)
	if err != nil {
		return s.writeError(c, err)
	}

	metrics.Default().RecordToggle(result.Taken)
	return c.JSON(result)
}

// ==================== Appointments ====================

func (r *appointmentRequest) toModel() *appointments.Appointment {
	return &appointments.Appointment{
		Title:                 r.Title,
		Type:                  appointments.Type(r.Type),
		Date:                  r.Date,
		Time:                  r.Time,
		IsRecurring:           r.IsRecurring,
		RecurrencePattern:     appointments.RecurrencePattern(r.RecurrencePattern),
		RecurrenceEndDate:     r.RecurrenceEndDate,
		PreviousAppointmentID: r.PreviousAppointmentID,
		Location:              r.Location,
		Doctor:                r.Doctor,
		Lab:                   r.Lab,
		Notes:                 r.Notes,
	}
}

func (s *Server) handleListAppointments(c *fiber.Ctx) error {
	appts, err := s.appts.List(userID(c), c.Query("filter"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(appts)
}

func (s *Server) handleCreateAppointment(c *fiber.Ctx) error {
	var req appointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	appt := req.toModel()
	if err := s.appts.Create(userID(c), appt, req.DocumentIDs); err != nil {
		return s.writeError(c, err)
	}
	return c.Status(201).JSON(appt)
}

func (s *Server) handleGetAppointment(c *fiber.Ctx) error {
	appt, err := s.appts.Get(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(appt)
}

func (s *Server) handleUpdateAppointment(c *fiber.Ctx) error {
	var req appointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	appt, err := s.appts.Update(userID(c), c.Params("id"), req.toModel(), req.DocumentIDs)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(appt)
}

func (s *Server) handleDeleteAppointment(c *fiber.Ctx) error {
	if err := s.appts.Delete(userID(c), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(204)
}

func (s *Server) handleCompleteAppointment(c *fiber.Ctx) error {
	appt, err := s.appts.Complete(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(appt)
}

func (s *Server) handleCancelAppointment(c *fiber.Ctx) error {
	appt, err := s.appts.Cancel(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(appt)
}

func (s *Server) handleReactivateAppointment(c *fiber.Ctx) error {
	appt, err := s.appts.Reactivate(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(appt)
}

func (s *Server) handleAppointmentChain(c *fiber.Ctx) error {
	chain, err := s.appts.Chain(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(chain)
}

func (s *Server) handleAppointmentDocuments(c *fiber.Ctx) error {
	docs, err := s.appts.Documents(userID(c), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(docs)
}

// ==================== Stats ====================

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.stats.Build(userID(c)))
}
