package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

const recordWindowKeyPrefix = "production:records"

// RecordWindow identifies one fetched slice of production records.
type RecordWindow struct {
	Start string
	End   string
	Line  string
}

// RecordCache keeps fetched record windows so repeated dashboard queries
// skip the database.
type RecordCache interface {
	GetRecords(ctx context.Context, window RecordWindow) ([]domain.RawRecord, bool, error)
	SetRecords(ctx context.Context, window RecordWindow, records []domain.RawRecord) error
	InvalidateAll(ctx context.Context) error
}

type redisRecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopRecordCache struct{}

func NewRecordCache(cfg config.CacheConfig) (RecordCache, error) {
	if !cfg.Enabled {
		return &noopRecordCache{}, nil
	}

	client, err := connectRedis(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRecordCache{
		client: client,
		ttl:    recordTTL(cfg),
	}, nil
}

func NewNoopRecordCache() RecordCache {
	return &noopRecordCache{}
}

func (c *redisRecordCache) GetRecords(ctx context.Context, window RecordWindow) ([]domain.RawRecord, bool, error) {
	key := buildRecordWindowKey(window)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode record window cache: %w", err)
	}

	return records, true, nil
}

func (c *redisRecordCache) SetRecords(ctx context.Context, window RecordWindow, records []domain.RawRecord) error {
	if records == nil {
		records = []domain.RawRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode record window cache: %w", err)
	}

	if err := c.client.Set(ctx, buildRecordWindowKey(window), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisRecordCache) InvalidateAll(ctx context.Context) error {
	return unlinkByPrefix(ctx, c.client, recordWindowKeyPrefix+":")
}

func (n *noopRecordCache) GetRecords(ctx context.Context, window RecordWindow) ([]domain.RawRecord, bool, error) {
	return nil, false, nil
}

func (n *noopRecordCache) SetRecords(ctx context.Context, window RecordWindow, records []domain.RawRecord) error {
	return nil
}

func (n *noopRecordCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildRecordWindowKey hashes the normalized window so equivalent date
// spellings share an entry.
func buildRecordWindowKey(window RecordWindow) string {
	start := digits(window.Start)
	end := digits(window.End)
	line := strings.ToUpper(strings.TrimSpace(window.Line))
	if start == "" && end == "" && line == "" {
		return recordWindowKeyPrefix + ":default"
	}

	raw := strings.Join([]string{"start=" + start, "end=" + end, "line=" + line}, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", recordWindowKeyPrefix, hex.EncodeToString(hash[:]))
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
