package service

import (
	"context"
	"time"

	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/models"
)

// testToday is the fixed "now" used across the analytics tests.
// It is a Friday.
var testNow = time.Date(2026, time.August, 28, 12, 30, 0, 0, time.UTC)

var testToday = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

// day returns the calendar date offset days before today (offset 0 is
// today, 1 is yesterday)
func day(offset int) time.Time {
	return testToday.AddDate(0, 0, -offset)
}

func ptr[T any](v T) *T { return &v }

func recordOn(date time.Time, muts ...func(*models.HabitRecord)) models.HabitRecord {
	rec := models.HabitRecord{
		ID:     "rec-" + date.Format(models.DateFormat),
		UserID: "user-1",
		Date:   date,
	}
	for _, mut := range muts {
		mut(&rec)
	}
	return rec
}

func withSleep(hours float64) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) { r.SleepHours = ptr(hours) }
}

func withSleepQuality(q int) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) { r.SleepQuality = ptr(q) }
}

func withWater(ml int) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) { r.WaterMl = ptr(ml) }
}

func withRun(dayType models.DayType, km float64) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) {
		r.RunDayType = ptr(dayType)
		if km > 0 {
			r.RunDistanceKm = ptr(km)
		}
	}
}

func withGym(dayType models.DayType, minutes int) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) {
		r.GymDayType = ptr(dayType)
		if minutes > 0 {
			r.GymDurationMin = ptr(minutes)
		}
	}
}

func withMood(mood int) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) { r.Mood = ptr(mood) }
}

func withStress(stress int) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) { r.Stress = ptr(stress) }
}

func withColdShower(done bool) func(*models.HabitRecord) {
	return func(r *models.HabitRecord) { r.ColdShower = ptr(done) }
}

// mockRecordRepo is a hand-rolled HabitRecordRepository double
type mockRecordRepo struct {
	records []models.HabitRecord
	err     error
	calls   int
}

func (m *mockRecordRepo) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HabitRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// mockCacheRepo is an in-memory CacheRepository double
type mockCacheRepo struct {
	entries map[string]*models.CacheEntry
	getErr  error
	setErr  error
	delErr  error
	deleted []string
	sets    int
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{entries: map[string]*models.CacheEntry{}}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string) (*models.CacheEntry, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[key], nil
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, entry *models.CacheEntry) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.entries[key] = entry
	return nil
}

func (m *mockCacheRepo) Delete(ctx context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.entries, key)
	return nil
}

func newTestInsightService(records *mockRecordRepo, cache *mockCacheRepo) *insightService {
	return &insightService{
		records:        records,
		cache:          cache,
		log:            logger.NewSlogLogger(logger.Config{Level: logger.LevelError, Format: "text"}),
		loc:            time.UTC,
		lookbackDays:   30,
		patternWeeks:   4,
		insightTTL:     8 * time.Hour,
		computeTimeout: 15 * time.Second,
		now:            func() time.Time { return testNow },
	}
}
