package models

import "time"

// DateFormat is the canonical calendar-date layout used throughout the
// analytics pipeline. Records are keyed by (user, date) at day granularity.
const DateFormat = "2006-01-02"

// HabitType identifies one of the six tracked wellness domains
type HabitType string

const (
	HabitSleep      HabitType = "sleep"
	HabitWater      HabitType = "water"
	HabitRun        HabitType = "run"
	HabitGym        HabitType = "gym"
	HabitReflect    HabitType = "reflect"
	HabitColdShower HabitType = "cold_shower"
)

// AllHabitTypes lists every tracked habit type in display order
var AllHabitTypes = []HabitType{
	HabitSleep,
	HabitWater,
	HabitRun,
	HabitGym,
	HabitReflect,
	HabitColdShower,
}

// IsValid reports whether t is one of the six tracked habit types
func (t HabitType) IsValid() bool {
	for _, ht := range AllHabitTypes {
		if t == ht {
			return true
		}
	}
	return false
}

// DayType classifies a training day for run/gym habits
type DayType string

const (
	DayTypeActive DayType = "active"
	DayTypeRest   DayType = "rest"
	DayTypeSkip   DayType = "skip"
)

// HabitRecord is one user's wellness log for a single calendar date.
// All domain fields are optional; a nil field means the habit was not
// tracked that day. Records are owned by the external record store and
// are never mutated by the analytics pipeline.
type HabitRecord struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"`

	// Sleep
	SleepHours    *float64 `json:"sleep_hours,omitempty"`
	SleepQuality  *int     `json:"sleep_quality,omitempty"` // 1-5
	BedtimeHour   *int     `json:"bedtime_hour,omitempty"`
	BedtimeMinute *int     `json:"bedtime_minute,omitempty"`
	WakeHour      *int     `json:"wake_hour,omitempty"`
	WakeMinute    *int     `json:"wake_minute,omitempty"`

	// Hydration
	WaterMl *int `json:"water_ml,omitempty"`

	// Run
	RunDayType     *DayType `json:"run_day_type,omitempty"`
	RunDistanceKm  *float64 `json:"run_distance_km,omitempty"`
	RunDurationMin *int     `json:"run_duration_min,omitempty"`

	// Gym
	GymDayType     *DayType `json:"gym_day_type,omitempty"`
	GymDurationMin *int     `json:"gym_duration_min,omitempty"`

	// Reflection, each on a 1-5 scale
	Mood       *int `json:"mood,omitempty"`
	Energy     *int `json:"energy,omitempty"`
	Motivation *int `json:"motivation,omitempty"`
	Stress     *int `json:"stress,omitempty"`

	// Cold exposure
	ColdShower *bool `json:"cold_shower,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day returns the record's calendar date truncated to midnight in loc.
func (r *HabitRecord) Day(loc *time.Location) time.Time {
	d := r.Date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// Period selects the reporting window for completion rates and insights
type Period string

const (
	// PeriodWeek is a rolling 7-day window ending today
	PeriodWeek Period = "week"
	// PeriodCalendarWeek is the current calendar week, Monday through Sunday
	PeriodCalendarWeek Period = "calendar_week"
	// PeriodMonth is a rolling 30-day window ending today
	PeriodMonth Period = "month"
)

// IsValid reports whether p is a supported reporting period
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodCalendarWeek, PeriodMonth:
		return true
	}
	return false
}

// ConversationTurn is a single cached chat transcript entry. The chat
// reply generation itself lives outside this service; we only keep the
// short-lived transcript window for it.
type ConversationTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendTurnRequest is the request to append a conversation turn
type AppendTurnRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}
