// Package api exposes the care schedule engine over HTTP.
package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gmsas95/caretrack/internal/appointments"
	"github.com/gmsas95/caretrack/internal/config"
	"github.com/gmsas95/caretrack/internal/medications"
	"github.com/gmsas95/caretrack/internal/metrics"
	"github.com/gmsas95/caretrack/internal/stats"
)

// Server handles the HTTP API.
type Server struct {
	app          *fiber.App
	config       *config.Config
	meds         *medications.Service
	appts        *appointments.Service
	stats        *stats.Service
	logger       *zap.Logger
	loginLimiter *rate.Limiter
}

// New creates a new API server.
func New(cfg *config.Config, meds *medications.Service, appts *appointments.Service, statsSvc *stats.Service, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:          app,
		config:       cfg,
		meds:         meds,
		appts:        appts,
		stats:        statsSvc,
		logger:       logger,
		loginLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Middleware
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.config.Security.AllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	s.app.Use(s.metricsMiddleware())

	// Health and metrics
	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/metrics", s.handleMetrics)

	api := s.app.Group("/api")

	// Public routes
	api.Post("/auth/login", s.loginRateLimit(), s.handleLogin)

	// Protected routes
	protected := api.Use(s.authMiddleware())

	// Medications
	protected.Get("/medications", s.handleListMedications)
	protected.Post("/medications", s.handleCreateMedication)
	protected.Get("/medications/:id", s.handleGetMedication)
	protected.Put("/medications/:id", s.handleUpdateMedication)
	protected.Delete("/medications/:id", s.handleDeleteMedication)
	protected.Post("/medications/:id/complete", s.handleCompleteMedication)
	protected.Post("/medications/:id/reactivate", s.handleReactivateMedication)

	// Daily schedule
	protected.Get("/schedule", s.handleSchedule)
	protected.Post("/schedule/toggle", s.handleToggle)

	// Appointments
	protected.Get("/appointments", s.handleListAppointments)
	protected.Post("/appointments", s.handleCreateAppointment)
	protected.Get("/appointments/:id", s.handleGetAppointment)
	protected.Put("/appointments/:id", s.handleUpdateAppointment)
	protected.Delete("/appointments/:id", s.handleDeleteAppointment)
	protected.Post("/appointments/:id/complete", s.handleCompleteAppointment)
	protected.Post("/appointments/:id/cancel", s.handleCancelAppointment)
	protected.Post("/appointments/:id/reactivate", s.handleReactivateAppointment)
	protected.Get("/appointments/:id/chain", s.handleAppointmentChain)
	protected.Get("/appointments/:id/documents", s.handleAppointmentDocuments)

	// Dashboard
	protected.Get("/stats", s.handleStats)
}

// Start starts the server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Address, s.config.Server.Port)
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   "0.1.0",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/plain; version=0.0.4")
	return c.SendString(metrics.Prometheus())
}
