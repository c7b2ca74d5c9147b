// backend-go/internal/service/ingest_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/prodtrack/backend-go/internal/cache"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
)

// ImportResult reports what an import stored.
type ImportResult struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
}

type IngestService struct {
	records repository.RecordRepository
	plans   repository.PlanRepository
	cache   cache.RecordCache
}

func NewIngestService(records repository.RecordRepository, plans repository.PlanRepository, cacheImpl cache.RecordCache) *IngestService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRecordCache()
	}
	return &IngestService{records: records, plans: plans, cache: cacheImpl}
}

// ImportRecords loads a JSON array of production records.
func (s *IngestService) ImportRecords(ctx context.Context, r io.Reader) (ImportResult, error) {
	var records []domain.RawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return ImportResult{}, fmt.Errorf("decode records: %w", err)
	}
	return s.StoreRecords(ctx, records)
}

// StoreRecords persists decoded records and drops cached windows.
func (s *IngestService) StoreRecords(ctx context.Context, records []domain.RawRecord) (ImportResult, error) {
	result := ImportResult{Received: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	stored, err := s.records.UpsertRecords(ctx, records)
	if err != nil {
		return result, fmt.Errorf("failed to store records: %w", err)
	}
	result.Stored = stored

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("ingest: cache invalidation failed")
	}
	log.Info().Int("received", result.Received).Int("stored", stored).Msg("ingest: records imported")
	return result, nil
}

// ImportPlans validates and upserts plans; the first invalid plan aborts the
// import before anything is written.
func (s *IngestService) ImportPlans(ctx context.Context, plans []domain.MonthlyPlan) (ImportResult, error) {
	result := ImportResult{Received: len(plans)}
	normalized := make([]domain.MonthlyPlan, 0, len(plans))
	for _, p := range plans {
		np, err := normalizePlan(p)
		if err != nil {
			return result, err
		}
		normalized = append(normalized, np)
	}

	for _, p := range normalized {
		if err := s.plans.UpsertPlan(ctx, p); err != nil {
			return result, fmt.Errorf("failed to store plan %s: %w", p.Key(), err)
		}
		result.Stored++
	}
	log.Info().Int("stored", result.Stored).Msg("ingest: plans imported")
	return result, nil
}

// ImportPlansJSON loads the plan dump format, a JSON array of plans.
func (s *IngestService) ImportPlansJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var plans []domain.MonthlyPlan
	if err := json.NewDecoder(r).Decode(&plans); err != nil {
		return ImportResult{}, fmt.Errorf("decode plans: %w", err)
	}
	return s.ImportPlans(ctx, plans)
}
