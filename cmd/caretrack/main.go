package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/gmsas95/caretrack/internal/api"
	"github.com/gmsas95/caretrack/internal/appointments"
	"github.com/gmsas95/caretrack/internal/clock"
	"github.com/gmsas95/caretrack/internal/config"
	"github.com/gmsas95/caretrack/internal/medications"
	"github.com/gmsas95/caretrack/internal/reminders"
	"github.com/gmsas95/caretrack/internal/stats"
	"github.com/gmsas95/caretrack/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", "", "Path to data directory")
	version    = "dev"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("Caretrack version %s\n", version)
			return
		}
	}

	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Caretrack", zap.String("version", version))

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	st, err := store.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	clk := clock.SystemClock{}

	meds, err := medications.NewService(st.DB(), clk, logger)
	if err != nil {
		logger.Fatal("Failed to initialize medication service", zap.Error(err))
	}

	appts, err := appointments.NewService(st.DB(), clk, logger)
	if err != nil {
		logger.Fatal("Failed to initialize appointment service", zap.Error(err))
	}

	statsSvc := stats.NewService(meds.Store(), appts.Store(), clk, logger)

	var runner *reminders.Runner
	if cfg.Reminders.Enabled {
		runner = reminders.NewRunner(
			reminders.Config{CheckInterval: cfg.Reminders.IntervalMinutes},
			appts.Store(), meds.Store(), nil, clk, logger,
		)
		if err := runner.Start(); err != nil {
			logger.Fatal("Failed to start reminder runner", zap.Error(err))
		}
		logger.Info("Reminder runner started",
			zap.Int("interval_minutes", cfg.Reminders.IntervalMinutes),
		)
	}

	server := api.New(cfg, meds, appts, statsSvc, logger)

	go func() {
		logger.Info("API server listening",
			zap.String("address", cfg.Server.Address),
			zap.Int("port", cfg.Server.Port),
		)
		if err := server.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if runner != nil {
		runner.Stop()
	}
	if err := server.Shutdown(); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
