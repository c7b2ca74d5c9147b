package drive

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

// PlanStore persists imported plans.
type PlanStore interface {
	ImportPlans(ctx context.Context, plans []domain.MonthlyPlan) (service.ImportResult, error)
}

// PlanImporter pulls plan workbooks from Drive into the plan table.
type PlanImporter struct {
	source     FileSource
	store      PlanStore
	folderPath string
}

func NewPlanImporter(source FileSource, store PlanStore, folderPath string) *PlanImporter {
	return &PlanImporter{source: source, store: store, folderPath: folderPath}
}

// ImportFile imports one workbook by Drive file id.
func (p *PlanImporter) ImportFile(ctx context.Context, fileID string) (service.ImportResult, error) {
	var buf bytes.Buffer
	if err := p.source.DownloadFile(ctx, fileID, &buf); err != nil {
		return service.ImportResult{}, err
	}

	plans, err := ParsePlanWorkbook(&buf)
	if err != nil {
		return service.ImportResult{}, err
	}
	return p.store.ImportPlans(ctx, plans)
}

// ImportLatest imports the most recently modified workbook of a folder. An
// empty path uses the configured plan folder.
func (p *PlanImporter) ImportLatest(ctx context.Context, folderPath string) (*File, service.ImportResult, error) {
	if folderPath == "" {
		folderPath = p.folderPath
	}
	folderID, err := p.source.FindFolderByPath(ctx, folderPath)
	if err != nil {
		return nil, service.ImportResult{}, err
	}

	files, err := p.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, service.ImportResult{}, err
	}

	latest := latestWorkbook(files)
	if latest == nil {
		return nil, service.ImportResult{}, fmt.Errorf("no .xlsx plan workbook in %q", folderPath)
	}

	log.Info().Str("file", latest.Name).Str("id", latest.ID).Msg("drive: importing plan workbook")
	result, err := p.ImportFile(ctx, latest.ID)
	return latest, result, err
}

func latestWorkbook(files []*File) *File {
	var latest *File
	for _, f := range files {
		if strings.ToLower(filepath.Ext(f.Name)) != ".xlsx" {
			continue
		}
		// RFC 3339 timestamps sort lexically.
		if latest == nil || f.ModifiedTime > latest.ModifiedTime {
			latest = f
		}
	}
	return latest
}
