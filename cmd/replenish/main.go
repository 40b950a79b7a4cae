// backend-go/cmd/replenish/main.go
//
// replenish is the operator CLI. It talks to the same database as the server
// and prints order sheets, delivery plans, alerts, and deadline reminders.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/shopops/opsdash/backend-go/internal/cache"
	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/export"
	"github.com/shopops/opsdash/backend-go/internal/ingest"
	"github.com/shopops/opsdash/backend-go/internal/replenish"
	"github.com/shopops/opsdash/backend-go/internal/repository/postgres"
	"github.com/shopops/opsdash/backend-go/internal/service"
	"github.com/shopops/opsdash/backend-go/internal/storage"
)

type ctxKey int

const dbKey ctxKey = iota

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newSettingsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "settings",
		Usage:   "Path to the replenishment settings file",
		Value:   "./config/replenishment.yaml",
		EnvVars: []string{"APP_SETTINGS_FILE"},
	}
}

func initDB(c *cli.Context) error {
	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	return c.Context.Value(dbKey).(*postgres.DB)
}

func settingsFrom(c *cli.Context) (*config.ReplenishSettings, error) {
	return config.LoadSettings(c.String("settings"))
}

// newExporter builds a CSV exporter that also mirrors files to the configured
// object storage bucket when STORAGE_ENABLED is set.
func newExporter(dir string) *export.Exporter {
	objects, err := storage.FromConfig(config.Load().Storage)
	if err != nil {
		log.Printf("warning: object storage unavailable, exporting locally only: %v", err)
		objects = nil
	}
	return export.NewExporter(dir, objects)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "replenish",
		Usage: "Sales-velocity replenishment from the command line",
		Commands: []*cli.Command{
			{
				Name:  "ordersheet",
				Usage: "Print the suggested order sheet",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSettingsFlag(),
					&cli.StringFlag{Name: "vendor", Usage: "Only include items from this vendor"},
					&cli.Float64Flag{Name: "frequency", Usage: "Order frequency in weeks (0.5, 1, 2, 3, 4, 6, 8, 12, 26)"},
					&cli.IntFlag{Name: "days", Usage: "Analysis window in days"},
					&cli.StringFlag{Name: "as-of", Usage: "Analysis end date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "export-dir", Usage: "Also write the sheet as CSV into this directory"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runOrderSheet,
			},
			{
				Name:  "deliveries",
				Usage: "Print per-window delivery order sheets",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSettingsFlag(),
					&cli.StringFlag{Name: "as-of", Usage: "Plan date (YYYY-MM-DD)"},
					&cli.BoolFlag{Name: "exclusive", Usage: "Assign each day to a single window"},
					&cli.StringFlag{Name: "export-dir", Usage: "Also write the sheets as CSV into this directory"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runDeliveries,
			},
			{
				Name:  "alerts",
				Usage: "Print low-stock alerts or the vendor digest",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSettingsFlag(),
					&cli.StringFlag{Name: "vendor", Usage: "Only include items from this vendor"},
					&cli.BoolFlag{Name: "digest", Usage: "Print the human-readable vendor digest"},
					&cli.StringFlag{Name: "export-dir", Usage: "Also write the alerts as CSV into this directory"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runAlerts,
			},
			{
				Name:  "reminders",
				Usage: "Print today's vendor ordering deadlines",
				Flags: []cli.Flag{
					newSettingsFlag(),
				},
				Action: runReminders,
			},
			{
				Name:  "ingest",
				Usage: "Load sales export CSVs into the database",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing sales export CSVs",
						Value:   "./data/sales",
						EnvVars: []string{"APP_DATA_DIR"},
					},
					&cli.IntFlag{Name: "workers", Usage: "Parse worker count", Value: 4},
				},
				Before: initDB,
				After:  closeDB,
				Action: runIngest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runOrderSheet(c *cli.Context) error {
	settings, err := settingsFrom(c)
	if err != nil {
		return err
	}

	db := dbFrom(c)
	svc := service.NewReplenishmentService(
		postgres.NewSalesRepository(db),
		postgres.NewStockRepository(db),
		settings,
	)

	req := service.OrderSheetRequest{
		Vendor:       c.String("vendor"),
		Frequency:    domain.OrderFrequency(c.Float64("frequency")),
		AnalysisDays: c.Int("days"),
	}
	if asOf, err := time.Parse("2006-01-02", c.String("as-of")); err == nil {
		req.AsOf = asOf
	}

	items, err := svc.BuildOrderSheet(c.Context, req)
	if err != nil {
		return err
	}

	if dir := c.String("export-dir"); dir != "" {
		name := c.String("vendor")
		if name == "" {
			name = "all"
		}
		path, err := newExporter(dir).OrderSheet(c.Context, name, items)
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}

	return printJSON(items)
}

func runDeliveries(c *cli.Context) error {
	settings, err := settingsFrom(c)
	if err != nil {
		return err
	}

	db := dbFrom(c)
	svc := service.NewDeliveryService(
		postgres.NewSalesRepository(db),
		postgres.NewStockRepository(db),
		settings,
	)

	mode := replenish.ModePerWindow
	if c.Bool("exclusive") {
		mode = replenish.ModeExclusive
	}

	var asOf time.Time
	if parsed, err := time.Parse("2006-01-02", c.String("as-of")); err == nil {
		asOf = parsed
	}

	sheets, err := svc.PlanDeliveries(c.Context, asOf, mode)
	if err != nil {
		return err
	}

	if dir := c.String("export-dir"); dir != "" {
		paths, err := newExporter(dir).WindowSheets(c.Context, sheets)
		if err != nil {
			return err
		}
		log.Printf("wrote %s", strings.Join(paths, ", "))
	}

	return printJSON(sheets)
}

func runAlerts(c *cli.Context) error {
	settings, err := settingsFrom(c)
	if err != nil {
		return err
	}

	db := dbFrom(c)
	svc := service.NewAlertService(
		postgres.NewSalesRepository(db),
		postgres.NewStockRepository(db),
		cache.NewNoopAlertCache(),
		settings,
	)

	if c.Bool("digest") {
		digest, err := svc.Digest(c.Context)
		if err != nil {
			return err
		}
		fmt.Println(digest)
		return nil
	}

	alerts, err := svc.LowStock(c.Context, c.String("vendor"))
	if err != nil {
		return err
	}

	if dir := c.String("export-dir"); dir != "" {
		path, err := newExporter(dir).Alerts(c.Context, alerts)
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}

	return printJSON(alerts)
}

func runReminders(c *cli.Context) error {
	settings, err := settingsFrom(c)
	if err != nil {
		return err
	}

	svc := service.NewReminderService(settings)
	return printJSON(svc.DueToday(time.Now()))
}

func runIngest(c *cli.Context) error {
	db := dbFrom(c)
	orchestrator := ingest.NewOrchestrator(
		postgres.NewSalesRepository(db),
		ingest.Config{WorkerCount: c.Int("workers")},
	)
	return orchestrator.RunDir(c.Context, c.String("data-dir"))
}
