package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/pkg/supabase"
)

// cacheRow is the wire shape of one row in the cache_entries table.
// The key is the primary key, so Set can upsert on conflict.
type cacheRow struct {
	Key   string             `json:"key"`
	Entry *models.CacheEntry `json:"entry"`
}

type cacheRepository struct {
	client *supabase.Client
}

// NewCacheRepository creates a durable cache repository backed by the
// cache_entries table.
func NewCacheRepository(client *supabase.Client) CacheRepository {
	return &cacheRepository{client: client}
}

func (r *cacheRepository) Get(ctx context.Context, key string) (*models.CacheEntry, error) {
	query := map[string]interface{}{
		"key":    fmt.Sprintf("eq.%s", key),
		"select": "*",
	}

	body, err := r.client.Query(ctx, "cache_entries", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var rows []cacheRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Entry, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, entry *models.CacheEntry) error {
	row := cacheRow{Key: key, Entry: entry}

	if _, err := r.client.Upsert(ctx, "cache_entries", row, "key"); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	query := map[string]interface{}{
		"key": fmt.Sprintf("eq.%s", key),
	}

	if err := r.client.DeleteWhere(ctx, "cache_entries", query); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
