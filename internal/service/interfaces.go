package service

import (
	"context"

	"github.com/ritualhq/backend/internal/models"
)

// InsightService is the analytics pipeline's outbound surface. All
// methods recompute from the record store on demand; GenerateInsights
// additionally reads through the durable cache.
type InsightService interface {
	GenerateInsights(ctx context.Context, userID string, period models.Period) (*models.InsightBundle, error)
	GetSuggestions(ctx context.Context, userID string) ([]models.Suggestion, error)
	GetStreaks(ctx context.Context, userID string) ([]models.HabitStreak, error)
	GetStreak(ctx context.Context, userID string, habitType models.HabitType) (*models.HabitStreak, error)
	GetCompletionRate(ctx context.Context, userID string, period models.Period) (*models.CompletionRate, error)
	InvalidateInsights(ctx context.Context, userID string) error
}

// ConversationService keeps the short-lived chat transcript window.
// Reply generation lives outside this service.
type ConversationService interface {
	GetTranscript(ctx context.Context, userID string) ([]models.ConversationTurn, error)
	AppendTurn(ctx context.Context, userID string, req models.AppendTurnRequest) ([]models.ConversationTurn, error)
}
