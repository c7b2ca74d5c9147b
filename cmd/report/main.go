package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/prodtrack/backend-go/internal/cache"
	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/export"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
	"github.com/andresuchdata/prodtrack/backend-go/internal/storage"
	"github.com/andresuchdata/prodtrack/backend-go/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "report",
		Usage: "Render the production dashboard of a period as an XLSX workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Usage: "Month key (YYYYMM), defaults to the current month"},
			&cli.IntFlag{Name: "week", Usage: "Week index, 0 for the whole month"},
			&cli.StringFlag{Name: "start-date", Usage: "Explicit range start, overrides month and week"},
			&cli.StringFlag{Name: "end-date", Usage: "Explicit range end"},
			&cli.StringFlag{Name: "mode", Usage: "Aggregation mode: raw, processed or plan"},
			&cli.StringFlag{Name: "area", Usage: "Area code or name", Value: domain.AllAreas},
			&cli.StringFlag{Name: "group", Usage: "Machine group", Value: domain.AllGroups},
			&cli.StringFlag{Name: "out", Usage: "Output directory, defaults to APP_REPORT_DIR"},
			&cli.BoolFlag{Name: "upload", Usage: "Upload the workbook to object storage"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("report failed")
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(logger.LevelForMode(cfg.Server.Mode))

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	svc := service.NewDashboardService(
		postgres.NewRecordRepository(db),
		postgres.NewPlanRepository(db),
		cache.NewNoopRecordCache(),
		cfg.Production,
	)

	view, err := svc.View(c.Context, domain.DashboardFilter{
		Month:     c.String("month"),
		Week:      c.Int("week"),
		StartDate: c.String("start-date"),
		EndDate:   c.String("end-date"),
		Mode:      domain.AggregationMode(c.String("mode")),
		Area:      c.String("area"),
		Group:     c.String("group"),
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, view); err != nil {
		return err
	}

	outDir := c.String("out")
	if outDir == "" {
		outDir = cfg.App.ReportDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	name := export.FileName(view)
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Log.Info().
		Str("file", path).
		Str("start", view.Range.Start).
		Str("end", view.Range.End).
		Int("lines", len(view.Lines)).
		Msg("report written")

	if c.Bool("upload") {
		return upload(c.Context, cfg.Storage, name, buf.Bytes())
	}
	return nil
}

func upload(ctx context.Context, cfg config.StorageConfig, name string, data []byte) error {
	if !cfg.Enabled() {
		return fmt.Errorf("object storage is not configured")
	}
	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return err
	}
	key := storage.ResolveObjectKey(cfg.ReportPrefix, name)
	if err := client.UploadObject(ctx, key, bytes.NewReader(data), int64(len(data)), export.ContentType); err != nil {
		return err
	}
	logger.Log.Info().Str("key", key).Msg("report uploaded")
	return nil
}
