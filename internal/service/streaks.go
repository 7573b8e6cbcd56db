package service

import (
	"math"
	"sort"
	"time"

	"github.com/ritualhq/backend/internal/models"
)

// daysBetween returns the whole calendar days from a to b, both assumed
// normalized to midnight in the same location. Rounding absorbs DST
// offsets.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// dateOnly truncates t to midnight in loc
func dateOnly(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// calculateStreak computes the current and longest consecutive-day
// completion runs for one habit type. Records may arrive in any order;
// future-dated records are discarded before the walk.
//
// The current streak is alive only while the most recent completed date
// is today or yesterday (the grace day). Anything older means the user
// missed more than one day and the streak reads as 0, even though the
// history still counts toward the longest run.
func calculateStreak(records []models.HabitRecord, habitType models.HabitType, today time.Time, loc *time.Location) models.HabitStreak {
	streak := models.HabitStreak{HabitType: habitType}

	seen := make(map[time.Time]bool)
	for i := range records {
		rec := &records[i]
		if !IsCompleted(rec, habitType) {
			continue
		}
		day := rec.Day(loc)
		if day.After(today) {
			continue
		}
		seen[day] = true
	}

	if len(seen) == 0 {
		return streak
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	last := days[0]
	streak.LastCompletedDate = &last

	// Walk descending, closing a run on every gap > 1 day
	longest := 1
	run := 1
	recentRun := 1
	recentRunClosed := false
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) == 1 {
			run++
			if !recentRunClosed {
				recentRun++
			}
		} else {
			if run > longest {
				longest = run
			}
			run = 1
			recentRunClosed = true
		}
	}
	if run > longest {
		longest = run
	}
	streak.LongestStreak = longest

	// The most recent run is current only while still alive
	gap := daysBetween(last, today)
	if gap <= 1 {
		streak.CurrentStreak = recentRun
	}
	if gap > 2 {
		// stale run, force dead even if the walk above said otherwise
		streak.CurrentStreak = 0
	}

	return streak
}
