package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/storage"
)

func runFetch(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if !cfg.Storage.Enabled() {
		return fmt.Errorf("object storage is not configured")
	}
	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	downloader, err := storage.NewDownloader(client, c.String("dest"))
	if err != nil {
		return err
	}
	files, err := downloader.Download(c.Context, cfg.Storage.RecordPrefix, c.String("object"), ".json")
	if err != nil {
		return err
	}
	seedLog.Info().Int("files", len(files)).Str("prefix", cfg.Storage.RecordPrefix).Msg("record dumps downloaded")

	return importRecordFiles(c.Context, ingestService(db), files)
}
