package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"phone-specs/config"
	"phone-specs/models"
	"phone-specs/services"
	"phone-specs/storage"
	"phone-specs/utils"
)

func main() {
	cfg := config.Load()
	input := flag.String("input", cfg.InputCSVPath, "path to the raw phone CSV")
	dump := flag.Bool("dump", false, "print every cleaned record")
	flag.Parse()

	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("=== Phone spec cleaner starting ===")
	logger.Info("Config: input: %s | storage: %s | workers: %d",
		*input, cfg.StorageDriver, cfg.MaxConcurrency)

	rows, err := storage.NewCSVReader(*input, logger).ReadRows(ctx)
	if err != nil {
		logger.Error("Failed to load dataset: %v", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		logger.Error("Dataset %s has no data rows. Exiting.", *input)
		os.Exit(1)
	}

	cleaner := services.NewCleaner(logger, cfg.MaxConcurrency)
	phones := cleaner.Clean(rows)

	if *dump {
		for _, p := range phones {
			fmt.Println(p)
		}
	}

	if err := writeCSV(ctx, cfg.OutputCSVPath, phones); err != nil {
		logger.Error("CSV export failed: %v", err)
	} else {
		logger.Info("Clean records saved to %s", cfg.OutputCSVPath)
	}

	report := phones
	if cfg.StorageDriver != config.DriverNone {
		if stored, err := persist(ctx, cfg, logger, phones); err != nil {
			logger.Error("%s storage failed: %v", cfg.StorageDriver, err)
		} else {
			report = stored
		}
	}

	insightSvc := services.NewInsightService(logger, cfg.ReleaseCutoffYear)
	insightSvc.Print(insightSvc.Generate(report))
}

func writeCSV(ctx context.Context, path string, phones []models.Phone) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Write(ctx, phones)
}

// persist stores phones and reads them back so the report reflects the database.
func persist(ctx context.Context, cfg *config.Config, logger *utils.Logger, phones []models.Phone) ([]models.Phone, error) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	}

	w, err := storage.NewSQLWriter(ctx, cfg.StorageDriver, cfg.DSN(), retry)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	if err := w.Write(ctx, phones); err != nil {
		return nil, err
	}
	logger.Info("Stored %d phones in %s (batch %s)", len(phones), cfg.StorageDriver, w.BatchID())

	return w.FetchAll(ctx)
}
