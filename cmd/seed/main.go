package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/drive"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
	"github.com/andresuchdata/prodtrack/backend-go/pkg/logger"
)

type ctxKey string

const dbKey ctxKey = "db"

var seedLog = logger.Component("seed")

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, postgres.Wrap(sqlx.NewDb(db, "pgx"), c.Int64("max-tx")))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func ingestService(db *postgres.DB) *service.IngestService {
	return service.NewIngestService(postgres.NewRecordRepository(db), postgres.NewPlanRepository(db), nil)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		seedLog.Warn().Err(err).Msg("could not load .env file")
	}

	dbFlags := []cli.Flag{
		newDBURLFlag(),
		&cli.Int64Flag{
			Name:    "max-tx",
			Usage:   "Maximum concurrent transactions",
			Value:   4,
			EnvVars: []string{"DB_MAX_CONCURRENT_TX"},
		},
	}
	withFlags := func(extra ...cli.Flag) []cli.Flag {
		return append(append([]cli.Flag{}, dbFlags...), extra...)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load production records, plans and the work-days calendar",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create the production tables",
				Flags:  withFlags(),
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "records",
				Usage: "Import production record dumps (JSON arrays)",
				Flags: withFlags(
					&cli.StringFlag{
						Name:  "file",
						Usage: "Record dump to import",
					},
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory of record dumps, used when --file is not set",
						Value:   "./data/input/records",
						EnvVars: []string{"RECORDS_DIR"},
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: runRecords,
			},
			{
				Name:  "plans",
				Usage: "Import monthly plans from a JSON dump or an XLSX workbook",
				Flags: withFlags(
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Plan file (.json or .xlsx)",
						Required: true,
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: runPlans,
			},
			{
				Name:   "workdays",
				Usage:  "Store the built-in work-days calendar",
				Flags:  withFlags(),
				Before: initDB,
				After:  closeDB,
				Action: runWorkDays,
			},
			{
				Name:  "fetch",
				Usage: "Download record dumps from object storage and import them",
				Flags: withFlags(
					&cli.StringFlag{
						Name:  "object",
						Usage: "Single object to fetch, relative to the record prefix",
					},
					&cli.StringFlag{
						Name:    "dest",
						Usage:   "Local download directory",
						Value:   "./data/tmp/records",
						EnvVars: []string{"RECORDS_DOWNLOAD_DIR"},
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: runFetch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		seedLog.Fatal().Err(err).Msg("seed failed")
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	if err := db.Migrate(c.Context); err != nil {
		return err
	}
	seedLog.Info().Msg("schema applied")
	return nil
}

func runRecords(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	files := []string{c.String("file")}
	if files[0] == "" {
		files, err = listFiles(c.String("dir"), ".json")
		if err != nil {
			return err
		}
	}
	return importRecordFiles(c.Context, ingestService(db), files)
}

func importRecordFiles(ctx context.Context, svc *service.IngestService, files []string) error {
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		result, err := svc.ImportRecords(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		seedLog.Info().
			Str("file", path).
			Int("received", result.Received).
			Int("stored", result.Stored).
			Msg("records imported")
	}
	return nil
}

func runPlans(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	svc := ingestService(db)
	var result service.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		result, err = svc.ImportPlansJSON(c.Context, f)
	case ".xlsx":
		var plans []domain.MonthlyPlan
		plans, err = drive.ParsePlanWorkbook(f)
		if err == nil {
			result, err = svc.ImportPlans(c.Context, plans)
		}
	default:
		return fmt.Errorf("unsupported plan file %s", path)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	seedLog.Info().
		Str("file", path).
		Int("received", result.Received).
		Int("stored", result.Stored).
		Msg("plans imported")
	return nil
}

func runWorkDays(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	workDays := domain.DefaultWorkDays()
	if err := service.NewPlanService(postgres.NewPlanRepository(db)).SaveWorkDays(c.Context, workDays); err != nil {
		return err
	}
	seedLog.Info().Int("months", len(workDays)).Int("days", workDays.Total()).Msg("work days stored")
	return nil
}

func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", ext, dir)
	}
	sort.Strings(files)
	return files, nil
}
