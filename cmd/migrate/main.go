package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/consensuslabs/storefront/backend/internal/database"
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/consensuslabs/storefront/backend/internal/metrics"
	"github.com/consensuslabs/storefront/backend/internal/storage/s3"
	"github.com/consensuslabs/storefront/backend/migrations"
	"github.com/joho/godotenv"
)

func main() {
	direction := flag.String("direction", migrations.DirectionUp, "Migration direction (up or down)")
	steps := flag.Int("steps", 0, "Number of migrations to revert; 0 reverts the latest batch")
	status := flag.Bool("status", false, "Print migration status and exit")
	force := flag.Bool("force", false, "Run migrations regardless of environment")
	configDir := flag.String("config", ".", "Directory containing config.yaml")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found or error loading it: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Format: logger.FormatJSON,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfigService(appLogger).Load(*configDir)
	if err != nil {
		appLogger.LogFatal(err, "Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, cfg, appLogger, *direction, *steps, *status, *force); err != nil {
		appLogger.LogError(err, "Migration command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, log logger.Logger, direction string, steps int, statusOnly, force bool) error {
	dbService := database.NewDatabaseService(&cfg.Database, log)
	db, err := dbService.Connect()
	if err != nil {
		return err
	}
	defer dbService.Close()

	opts := []migrations.Option{
		migrations.WithLogger(log),
		migrations.WithMetrics(metrics.NewCollector()),
		migrations.WithLedgerTable(cfg.Migration.TableName),
	}
	if cfg.Archive.Enabled {
		sink, err := s3.NewService(&cfg.Archive, log)
		if err != nil {
			return err
		}
		defer sink.Close()
		opts = append(opts, migrations.WithArchive(sink))
	}
	runner := migrations.NewRunner(db, migrations.Default(), opts...)

	if statusOnly {
		return printStatus(ctx, out, runner)
	}

	mc := database.NewMigrationConfig(cfg)
	if force {
		mc.ForceRun = true
	}
	if err := mc.Validate(); err != nil {
		return fmt.Errorf("%w (pass -force to override)", err)
	}

	var names []string
	switch direction {
	case migrations.DirectionUp:
		names, err = runner.Up(ctx)
	case migrations.DirectionDown:
		names, err = runner.Down(ctx, steps)
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
	if err != nil {
		return err
	}

	log.LogInfo("Migrations completed successfully", map[string]interface{}{
		"direction": direction,
		"count":     len(names),
		"names":     names,
	})
	return printStatus(ctx, out, runner)
}

func printStatus(ctx context.Context, out io.Writer, runner *migrations.Runner) error {
	entries, err := runner.Status(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAPPLIED\tBATCH\tLOSSY")
	for _, e := range entries {
		name := e.Name
		if !e.Known {
			name += " (unknown)"
		}
		fmt.Fprintf(w, "%s\t%t\t%d\t%t\n", name, e.Applied, e.Batch, e.Lossy)
	}
	return w.Flush()
}
