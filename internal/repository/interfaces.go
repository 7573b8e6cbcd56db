package repository

import (
	"context"
	"time"

	"github.com/ritualhq/backend/internal/models"
)

// HabitRecordRepository is the pipeline's only dependency on the
// persistence layer. It returns raw records for a date range; filtering
// (future dates, completion) is the pipeline's responsibility.
type HabitRecordRepository interface {
	GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HabitRecord, error)
}

// CacheRepository is a generic durable key-value store for versioned
// cache entries. Get returns (nil, nil) when the key is absent.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*models.CacheEntry, error)
	Set(ctx context.Context, key string, entry *models.CacheEntry) error
	Delete(ctx context.Context, key string) error
}
