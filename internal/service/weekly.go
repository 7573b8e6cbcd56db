package service

import (
	"math"
	"sort"
	"time"

	"github.com/ritualhq/backend/internal/models"
)

const (
	// minSampleDaysForConsistency gates the consistency score; with
	// fewer sampled days the weekday variance is mostly noise
	minSampleDaysForConsistency = 14
	// minCompletedDaysForConsistency is the companion completion gate
	minCompletedDaysForConsistency = 7
	// trendDelta is the dead zone below which a trend reads as stable
	trendDelta = 0.1
	// trendWindow is how many recent records feed each side of the
	// trend comparison
	trendWindow = 7
)

// analyzeWeeklyPattern buckets one habit's records from the last
// weeks*7 days by weekday and derives the peak day, a variance-based
// consistency score, and a recent-value trend.
func analyzeWeeklyPattern(records []models.HabitRecord, habitType models.HabitType, today time.Time, loc *time.Location, weeks int) models.WeeklyPattern {
	pattern := models.WeeklyPattern{HabitType: habitType, Trend: models.TrendStable}

	windowStart := today.AddDate(0, 0, -weeks*7+1)
	ordered := make([]models.HabitRecord, 0, len(records))
	for i := range records {
		d := records[i].Day(loc)
		if d.After(today) || d.Before(windowStart) {
			continue
		}
		ordered = append(ordered, records[i])
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Day(loc).Before(ordered[j].Day(loc))
	})

	for i := range ordered {
		rec := &ordered[i]
		wd := rec.Day(loc).Weekday()
		pattern.Weekdays[wd].TotalDays++
		pattern.SampleDays++
		if IsCompleted(rec, habitType) {
			pattern.Weekdays[wd].CompletedDays++
			pattern.CompletedDays++
		}
	}

	for i := range pattern.Weekdays {
		if pattern.Weekdays[i].TotalDays > 0 {
			pattern.Weekdays[i].CompletionRate = float64(pattern.Weekdays[i].CompletedDays) / float64(pattern.Weekdays[i].TotalDays)
		}
	}

	// Peak day: max rate, first weekday wins on ties (Sunday first)
	peak := time.Sunday
	best := pattern.Weekdays[time.Sunday].CompletionRate
	for d := time.Monday; d <= time.Saturday; d++ {
		if pattern.Weekdays[d].CompletionRate > best {
			best = pattern.Weekdays[d].CompletionRate
			peak = d
		}
	}
	pattern.PeakDay = peak

	// Consistency: low variance across weekday rates scores high.
	// Below the sample gates the score stays 0 (insufficient signal).
	if pattern.SampleDays >= minSampleDaysForConsistency && pattern.CompletedDays >= minCompletedDaysForConsistency {
		rates := make([]float64, 7)
		for i := range pattern.Weekdays {
			rates[i] = pattern.Weekdays[i].CompletionRate * 100
		}
		pattern.ConsistencyScore = math.Max(0, 100-stddev(rates))
	}

	pattern.Trend = calculateTrend(ordered, habitType)

	return pattern
}

// calculateTrend compares the mean habit value of the most recent
// records against the window before them. Fewer than 7 records is not
// enough signal and reads as stable.
func calculateTrend(ordered []models.HabitRecord, habitType models.HabitType) models.Trend {
	if len(ordered) < trendWindow {
		return models.TrendStable
	}

	recentStart := len(ordered) - trendWindow
	priorStart := recentStart - trendWindow
	if priorStart < 0 {
		priorStart = 0
	}
	if priorStart == recentStart {
		return models.TrendStable
	}

	recent, recentOK := meanHabitValue(ordered[recentStart:], habitType)
	prior, priorOK := meanHabitValue(ordered[priorStart:recentStart], habitType)
	if !recentOK || !priorOK {
		return models.TrendStable
	}

	delta := recent - prior
	if math.Abs(delta) < trendDelta {
		return models.TrendStable
	}
	if delta > 0 {
		return models.TrendImproving
	}
	return models.TrendDeclining
}

// meanHabitValue averages the habit's numeric signal over the records
// that carry one
func meanHabitValue(records []models.HabitRecord, habitType models.HabitType) (float64, bool) {
	var sum float64
	count := 0
	for i := range records {
		if v, ok := HabitValue(&records[i], habitType); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// stddev is the population standard deviation
func stddev(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / n)
}
