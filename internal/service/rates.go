package service

import (
	"sort"
	"time"

	"github.com/ritualhq/backend/internal/models"
)

// periodBounds resolves a reporting period to inclusive calendar-day
// bounds. "week" and "month" are rolling windows ending today;
// "calendar_week" is Monday through Sunday of the week containing today.
func periodBounds(period models.Period, today time.Time) (time.Time, time.Time) {
	switch period {
	case models.PeriodCalendarWeek:
		// time.Weekday puts Sunday at 0; shift so Monday opens the week
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case models.PeriodMonth:
		return today.AddDate(0, 0, -29), today
	default:
		return today.AddDate(0, 0, -6), today
	}
}

// calculateCompletionRate summarises completion over [start, end]. The
// overall figure treats every tracked day as six completion opportunities,
// one per habit, so a day with only water logged still counts the other
// five habits as missed.
func calculateCompletionRate(records []models.HabitRecord, streaks map[models.HabitType]models.HabitStreak, start, end, today time.Time, loc *time.Location) models.CompletionRate {
	rate := models.CompletionRate{
		PerHabit:       make([]models.HabitCompletion, 0, len(models.AllHabitTypes)),
		TopPerforming:  []models.HabitType{},
		NeedsAttention: []models.HabitType{},
		PeriodStart:    start,
		PeriodEnd:      end,
	}

	inWindow := make([]models.HabitRecord, 0, len(records))
	trackedDays := make(map[time.Time]bool)
	for i := range records {
		day := records[i].Day(loc)
		if day.Before(start) || day.After(end) || day.After(today) {
			continue
		}
		inWindow = append(inWindow, records[i])
		trackedDays[day] = true
	}

	totalCompleted := 0
	for _, habitType := range models.AllHabitTypes {
		hc := models.HabitCompletion{HabitType: habitType}
		for i := range inWindow {
			if !IsTracked(&inWindow[i], habitType) {
				continue
			}
			hc.Total++
			if IsCompleted(&inWindow[i], habitType) {
				hc.Completed++
			}
		}
		if hc.Total > 0 {
			hc.Rate = float64(hc.Completed) / float64(hc.Total)
		}
		if s, ok := streaks[habitType]; ok {
			hc.Streak = s.CurrentStreak
		}
		totalCompleted += hc.Completed
		rate.PerHabit = append(rate.PerHabit, hc)
	}

	if len(trackedDays) > 0 {
		rate.Overall = float64(totalCompleted) / float64(len(trackedDays)*len(models.AllHabitTypes))
	}

	// Rank only habits that have data this period
	ranked := make([]models.HabitCompletion, 0, len(rate.PerHabit))
	for _, hc := range rate.PerHabit {
		if hc.Total > 0 {
			ranked = append(ranked, hc)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rate > ranked[j].Rate
	})
	for i := 0; i < len(ranked) && i < 2; i++ {
		rate.TopPerforming = append(rate.TopPerforming, ranked[i].HabitType)
	}
	for i := len(ranked) - 1; i >= 0 && len(rate.NeedsAttention) < 2; i-- {
		rate.NeedsAttention = append(rate.NeedsAttention, ranked[i].HabitType)
	}

	return rate
}
