package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"starpets-hunter/config"
	"starpets-hunter/models"
	"starpets-hunter/scheduler"
	"starpets-hunter/scraper/starpets"
	"starpets-hunter/services"
	"starpets-hunter/storage"
	"starpets-hunter/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Starpets Hunt System starting ===")
	logger.Info("Config — market: %s | targets: %s | history: %s | results/target: %d",
		cfg.MarketURL, cfg.TargetsPath, cfg.HistoryCSVPath, cfg.ResultLimit)

	if cfg.HuntSchedule == "" {
		if err := runHunt(cfg, logger); err != nil {
			logger.Fatal("Hunt run failed: %v", err)
		}
		logger.Info("Done.")
		return
	}

	sched, err := scheduler.New(cfg.HuntSchedule, logger, func() {
		if err := runHunt(cfg, logger); err != nil {
			logger.Error("Hunt run failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatal("Invalid HUNT_SCHEDULE: %v", err)
	}

	sched.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	sched.Stop()
}

// runHunt performs one full best-effort pass: load targets, hunt, match,
// notify, persist. Only session setup and history persistence failures
// surface as errors; everything below the per-target boundary is isolated
// inside the Hunter.
func runHunt(cfg *config.Config, logger *utils.Logger) error {
	targets, err := config.LoadTargets(cfg.TargetsPath)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logger.Info("No targets configured in %s. Nothing to hunt.", cfg.TargetsPath)
		return nil
	}

	hunter := starpets.New(cfg, logger)
	listings, err := hunter.Hunt(targets)
	if err != nil {
		return err
	}

	matcher := services.NewMatcher(logger)
	alerts := matcher.Match(listings, targets)

	notifier := services.NewNotifier(cfg.NtfyServer, cfg.NtfyTopic, logger)
	notifier.NotifyAll(alerts)

	// History is written after the alerts go out: a failed append must
	// not suppress deliveries, but it does fail the run.
	if len(listings) > 0 {
		if err := appendHistory(cfg, listings); err != nil {
			return err
		}
		logger.Info("Logged %d listings to %s", len(listings), cfg.HistoryCSVPath)
	} else {
		logger.Info("Hunt complete. No data to log.")
	}

	summarySvc := services.NewSummaryService(logger)
	summarySvc.Print(summarySvc.Generate(listings, targets, alerts))

	return nil
}

// appendHistory appends the run's listings to every enabled history
// backend. CSV is always on; PostgreSQL is opt-in.
func appendHistory(cfg *config.Config, listings []*models.Listing) error {
	csvWriter, err := storage.NewCSVWriter(cfg.HistoryCSVPath)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer csvWriter.Close()

	writers := []storage.HistoryWriter{csvWriter}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		defer pgWriter.Close()
		writers = append(writers, pgWriter)
	}

	for _, w := range writers {
		if err := w.Append(listings); err != nil {
			return fmt.Errorf("history: %w", err)
		}
	}
	return nil
}
