package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/models"
)

func newTestConversationService(cache *mockCacheRepo, now time.Time) *conversationService {
	return &conversationService{
		cache: cache,
		log:   logger.NewSlogLogger(logger.Config{Level: logger.LevelError, Format: "text"}),
		ttl:   2 * time.Hour,
		now:   func() time.Time { return now },
	}
}

func TestConversationRoundTrip(t *testing.T) {
	cache := newMockCacheRepo()
	svc := newTestConversationService(cache, testNow)
	ctx := context.Background()

	turns, err := svc.AppendTurn(ctx, "user-1", models.AppendTurnRequest{Role: "user", Content: "how are my streaks?"})
	if err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}

	turns, err = svc.AppendTurn(ctx, "user-1", models.AppendTurnRequest{Role: "assistant", Content: "water is at 5 days"})
	if err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}

	got, err := svc.GetTranscript(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d turns, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Errorf("turns out of order: %+v", got)
	}
	if got[0].Content != "how are my streaks?" {
		t.Errorf("turn content = %q", got[0].Content)
	}
}

func TestConversationCapsAtTwentyTurns(t *testing.T) {
	cache := newMockCacheRepo()
	svc := newTestConversationService(cache, testNow)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := svc.AppendTurn(ctx, "user-1", models.AppendTurnRequest{
			Role:    "user",
			Content: fmt.Sprintf("turn %d", i),
		}); err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}

	turns, err := svc.GetTranscript(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(turns) != maxConversationTurns {
		t.Fatalf("got %d turns, want %d", len(turns), maxConversationTurns)
	}
	if turns[0].Content != "turn 5" {
		t.Errorf("oldest kept turn = %q, want %q", turns[0].Content, "turn 5")
	}
	if turns[len(turns)-1].Content != "turn 24" {
		t.Errorf("newest turn = %q, want %q", turns[len(turns)-1].Content, "turn 24")
	}
}

func TestConversationExpiresAfterTTL(t *testing.T) {
	cache := newMockCacheRepo()
	svc := newTestConversationService(cache, testNow)
	ctx := context.Background()

	if _, err := svc.AppendTurn(ctx, "user-1", models.AppendTurnRequest{Role: "user", Content: "hello"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	// same durable store, clock advanced past the 2 hour TTL
	later := newTestConversationService(cache, testNow.Add(2*time.Hour))
	turns, err := later.GetTranscript(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("got %d turns after expiry, want 0", len(turns))
	}

	if len(cache.deleted) == 0 {
		t.Error("expired transcript entry was not purged")
	}
}

func TestConversationAppendRefreshesTTL(t *testing.T) {
	cache := newMockCacheRepo()
	ctx := context.Background()

	first := newTestConversationService(cache, testNow)
	if _, err := first.AppendTurn(ctx, "user-1", models.AppendTurnRequest{Role: "user", Content: "one"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	// appending 90 minutes later rewrites the window with a fresh TTL
	second := newTestConversationService(cache, testNow.Add(90*time.Minute))
	if _, err := second.AppendTurn(ctx, "user-1", models.AppendTurnRequest{Role: "user", Content: "two"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	// 3 hours after the first turn, 90 minutes after the second
	third := newTestConversationService(cache, testNow.Add(3*time.Hour))
	turns, err := third.GetTranscript(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(turns) != 2 {
		t.Errorf("got %d turns, want 2; append must refresh the TTL", len(turns))
	}
}

func TestCacheReadCorruptEntryPurges(t *testing.T) {
	cache := newMockCacheRepo()
	log := logger.NewSlogLogger(logger.Config{Level: logger.LevelError, Format: "text"})

	cache.entries["k"] = &models.CacheEntry{
		Version:   models.CacheEntryVersion,
		Data:      json.RawMessage(`[broken`),
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(time.Hour),
	}

	got, hit := cacheRead[[]models.ConversationTurn](context.Background(), cache, log, "k", testNow)
	if hit || got != nil {
		t.Errorf("corrupt entry must read as a miss, got hit=%v value=%v", hit, got)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != "k" {
		t.Errorf("corrupt entry was not purged: %v", cache.deleted)
	}
}

func TestCacheReadExpiryBoundary(t *testing.T) {
	cache := newMockCacheRepo()
	log := logger.NewSlogLogger(logger.Config{Level: logger.LevelError, Format: "text"})

	data, _ := json.Marshal([]models.ConversationTurn{{Role: "user", Content: "x"}})
	cache.entries["k"] = models.NewCacheEntry(data, testNow, time.Hour)

	// one nanosecond before expiry is a hit
	if _, hit := cacheRead[[]models.ConversationTurn](context.Background(), cache, log, "k", testNow.Add(time.Hour-time.Nanosecond)); !hit {
		t.Error("entry just before expiry must be a hit")
	}

	// exactly at expiry is a miss
	cache.entries["k"] = models.NewCacheEntry(data, testNow, time.Hour)
	if _, hit := cacheRead[[]models.ConversationTurn](context.Background(), cache, log, "k", testNow.Add(time.Hour)); hit {
		t.Error("entry exactly at expiry must be a miss")
	}
}

func TestCacheReadGetErrorIsMiss(t *testing.T) {
	cache := newMockCacheRepo()
	cache.getErr = fmt.Errorf("store down")
	log := logger.NewSlogLogger(logger.Config{Level: logger.LevelError, Format: "text"})

	if _, hit := cacheRead[[]models.ConversationTurn](context.Background(), cache, log, "k", testNow); hit {
		t.Error("store failure must read as a miss, not an error")
	}
}
