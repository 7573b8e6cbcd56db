package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/internal/repository"
)

// maxConversationTurns caps the cached transcript window; older turns
// fall off the front on append.
const maxConversationTurns = 20

func insightCacheKey(userID string, period models.Period) string {
	return fmt.Sprintf("insights:v%d:%s:%s", models.CacheEntryVersion, userID, period)
}

func conversationCacheKey(userID string) string {
	return fmt.Sprintf("conversation:v%d:%s", models.CacheEntryVersion, userID)
}

// cacheRead fetches and decodes a versioned entry. A stale, corrupt, or
// wrong-version entry is purged and reported as a miss; the caller
// recomputes. Purge failures are logged and swallowed, they must never
// block the recompute path.
func cacheRead[T any](ctx context.Context, cache repository.CacheRepository, log logger.Logger, key string, now time.Time) (*T, bool) {
	entry, err := cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed", logger.String("key", key), logger.Err(err))
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	purge := func(reason string) {
		log.Warn("purging cache entry", logger.String("key", key), logger.String("reason", reason))
		if err := cache.Delete(ctx, key); err != nil {
			log.Warn("cache purge failed", logger.String("key", key), logger.Err(err))
		}
	}

	if entry.Expired(now) {
		purge("expired")
		return nil, false
	}
	if entry.Version != models.CacheEntryVersion {
		purge("version mismatch")
		return nil, false
	}

	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		purge("undecodable payload")
		return nil, false
	}
	return &value, true
}

// cacheWrite stores value in a fresh versioned envelope
func cacheWrite(ctx context.Context, cache repository.CacheRepository, key string, value any, now time.Time, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache payload for %s: %w", key, err)
	}
	if err := cache.Set(ctx, key, models.NewCacheEntry(data, now, ttl)); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

type conversationService struct {
	cache repository.CacheRepository
	log   logger.Logger
	ttl   time.Duration
	now   func() time.Time
}

// NewConversationService builds the transcript cache service
func NewConversationService(cache repository.CacheRepository, log logger.Logger, ttl time.Duration) ConversationService {
	return &conversationService{
		cache: cache,
		log:   log,
		ttl:   ttl,
		now:   time.Now,
	}
}

// GetTranscript returns the cached transcript window, oldest first. A
// miss of any kind reads as an empty transcript.
func (s *conversationService) GetTranscript(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	turns, hit := cacheRead[[]models.ConversationTurn](ctx, s.cache, s.log.WithContext(ctx), conversationCacheKey(userID), s.now())
	if !hit || turns == nil {
		return []models.ConversationTurn{}, nil
	}
	return *turns, nil
}

// AppendTurn appends one turn to the transcript window and returns the
// updated window. Appending refreshes the whole window's TTL.
func (s *conversationService) AppendTurn(ctx context.Context, userID string, req models.AppendTurnRequest) ([]models.ConversationTurn, error) {
	now := s.now()

	turns, err := s.GetTranscript(ctx, userID)
	if err != nil {
		return nil, err
	}

	turns = append(turns, models.ConversationTurn{
		Role:      req.Role,
		Content:   req.Content,
		CreatedAt: now,
	})
	if len(turns) > maxConversationTurns {
		turns = turns[len(turns)-maxConversationTurns:]
	}

	if err := cacheWrite(ctx, s.cache, conversationCacheKey(userID), turns, now, s.ttl); err != nil {
		return nil, err
	}
	return turns, nil
}
