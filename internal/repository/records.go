package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/pkg/supabase"
)

type habitRecordRepository struct {
	client *supabase.Client
}

// NewHabitRecordRepository creates a new habit record repository
func NewHabitRecordRepository(client *supabase.Client) HabitRecordRepository {
	return &habitRecordRepository{client: client}
}

func (r *habitRecordRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HabitRecord, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"date":    fmt.Sprintf("gte.%s", startDate.Format(models.DateFormat)),
		"and":     fmt.Sprintf("(date.lte.%s)", endDate.Format(models.DateFormat)),
		"select":  "*",
		"order":   "date.asc",
	}

	body, err := r.client.Query(ctx, "habit_records", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit records: %w", err)
	}

	var records []models.HabitRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return records, nil
}
