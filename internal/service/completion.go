package service

import "github.com/ritualhq/backend/internal/models"

// IsCompleted classifies whether a record satisfies "completed" for a
// habit type. This is the single source of truth for completion; every
// analyzer calls this instead of re-deriving the rules. It is pure and
// total: no record shape can make it panic.
func IsCompleted(rec *models.HabitRecord, habitType models.HabitType) bool {
	if rec == nil {
		return false
	}

	switch habitType {
	case models.HabitSleep:
		if rec.SleepHours != nil && *rec.SleepHours > 0 {
			return true
		}
		bedtime := rec.BedtimeHour != nil && rec.BedtimeMinute != nil
		wake := rec.WakeHour != nil && rec.WakeMinute != nil
		return bedtime && wake
	case models.HabitWater:
		return rec.WaterMl != nil && *rec.WaterMl > 0
	case models.HabitRun:
		return rec.RunDayType != nil && *rec.RunDayType == models.DayTypeActive
	case models.HabitGym:
		return rec.GymDayType != nil && *rec.GymDayType == models.DayTypeActive
	case models.HabitReflect:
		return rec.Mood != nil
	case models.HabitColdShower:
		return rec.ColdShower != nil && *rec.ColdShower
	}
	return false
}

// IsTracked reports whether the habit has any data on the record at all,
// completed or not. Completion rates divide by tracked records only.
func IsTracked(rec *models.HabitRecord, habitType models.HabitType) bool {
	if rec == nil {
		return false
	}

	switch habitType {
	case models.HabitSleep:
		return rec.SleepHours != nil || rec.SleepQuality != nil ||
			(rec.BedtimeHour != nil && rec.BedtimeMinute != nil) ||
			(rec.WakeHour != nil && rec.WakeMinute != nil)
	case models.HabitWater:
		return rec.WaterMl != nil
	case models.HabitRun:
		return rec.RunDayType != nil
	case models.HabitGym:
		return rec.GymDayType != nil
	case models.HabitReflect:
		return rec.Mood != nil || rec.Energy != nil || rec.Motivation != nil || rec.Stress != nil
	case models.HabitColdShower:
		return rec.ColdShower != nil
	}
	return false
}

// HabitValue extracts the numeric signal used for trend analysis.
// Returns false when the habit has no usable value on the record.
func HabitValue(rec *models.HabitRecord, habitType models.HabitType) (float64, bool) {
	if rec == nil {
		return 0, false
	}

	switch habitType {
	case models.HabitSleep:
		if rec.SleepHours != nil {
			return *rec.SleepHours, true
		}
	case models.HabitWater:
		if rec.WaterMl != nil {
			// litres, so the 0.1 trend threshold is meaningful
			return float64(*rec.WaterMl) / 1000, true
		}
	case models.HabitRun:
		if rec.RunDistanceKm != nil {
			return *rec.RunDistanceKm, true
		}
	case models.HabitGym:
		if rec.GymDurationMin != nil {
			return float64(*rec.GymDurationMin), true
		}
	case models.HabitReflect:
		if rec.Mood != nil {
			return float64(*rec.Mood), true
		}
	case models.HabitColdShower:
		if rec.ColdShower != nil {
			if *rec.ColdShower {
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

// signal is one named numeric series used for cross-habit correlation
type signal struct {
	name    string
	extract func(*models.HabitRecord) (float64, bool)
}

func intSignal(get func(*models.HabitRecord) *int) func(*models.HabitRecord) (float64, bool) {
	return func(rec *models.HabitRecord) (float64, bool) {
		if v := get(rec); v != nil {
			return float64(*v), true
		}
		return 0, false
	}
}

// correlationSignals is the fixed set of habit signals compared pairwise
var correlationSignals = []signal{
	{name: "sleep_hours", extract: func(r *models.HabitRecord) (float64, bool) {
		if r.SleepHours != nil {
			return *r.SleepHours, true
		}
		return 0, false
	}},
	{name: "sleep_quality", extract: intSignal(func(r *models.HabitRecord) *int { return r.SleepQuality })},
	{name: "water_ml", extract: intSignal(func(r *models.HabitRecord) *int { return r.WaterMl })},
	{name: "run_distance_km", extract: func(r *models.HabitRecord) (float64, bool) {
		if r.RunDistanceKm != nil {
			return *r.RunDistanceKm, true
		}
		return 0, false
	}},
	{name: "mood", extract: intSignal(func(r *models.HabitRecord) *int { return r.Mood })},
	{name: "energy", extract: intSignal(func(r *models.HabitRecord) *int { return r.Energy })},
	{name: "stress", extract: intSignal(func(r *models.HabitRecord) *int { return r.Stress })},
}
