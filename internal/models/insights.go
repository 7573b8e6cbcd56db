package models

import "time"

// InsightType represents the type of insight card
type InsightType string

const (
	InsightTypeStreak         InsightType = "streak"
	InsightTypePattern        InsightType = "pattern"
	InsightTypeCorrelation    InsightType = "correlation"
	InsightTypeRecommendation InsightType = "recommendation"
	InsightTypeAchievement    InsightType = "achievement"
)

// Strength classifies the magnitude of a correlation
type Strength string

const (
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// Direction represents the sign of a correlation
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// Trend represents the recent movement of a habit signal
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Mood is the overall tone classification of an insight bundle
type Mood string

const (
	MoodPositive  Mood = "positive"
	MoodNeutral   Mood = "neutral"
	MoodConcerned Mood = "concerned"
)

// HabitStreak holds the consecutive-day completion runs for one habit
// type. Streaks are recomputed fully on each query and replaced, never
// mutated in place.
type HabitStreak struct {
	HabitType         HabitType  `json:"habit_type"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastCompletedDate *time.Time `json:"last_completed_date,omitempty"`
}

// WeekdayStats holds per-weekday completion counters
type WeekdayStats struct {
	CompletionRate float64 `json:"completion_rate"` // 0-1
	TotalDays      int     `json:"total_days"`
	CompletedDays  int     `json:"completed_days"`
}

// WeeklyPattern is the weekday-bucketed behavioural profile of one habit
type WeeklyPattern struct {
	HabitType HabitType `json:"habit_type"`
	// Weekdays is indexed by time.Weekday (Sunday=0 .. Saturday=6)
	Weekdays [7]WeekdayStats `json:"weekdays"`
	PeakDay  time.Weekday    `json:"peak_day"`
	// ConsistencyScore is 0-100; 0 also means "insufficient signal"
	ConsistencyScore float64 `json:"consistency_score"`
	Trend            Trend   `json:"trend"`
	SampleDays       int     `json:"sample_days"`
	CompletedDays    int     `json:"completed_days"`
}

// CorrelationFinding is one surfaced pairwise correlation between two
// habit signals. Findings with |r| <= 0.3 are never constructed.
type CorrelationFinding struct {
	SignalA     string    `json:"signal_a"`
	SignalB     string    `json:"signal_b"`
	Coefficient float64   `json:"coefficient"` // -1..1
	Strength    Strength  `json:"strength"`
	Direction   Direction `json:"direction"`
	SampleSize  int       `json:"sample_size"`
}

// HabitCompletion is the per-habit breakdown within a CompletionRate
type HabitCompletion struct {
	HabitType HabitType `json:"habit_type"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Rate      float64   `json:"rate"` // 0-1, 0 when Total is 0
	Streak    int       `json:"streak"`
}

// CompletionRate summarises completion over a reporting period
type CompletionRate struct {
	Overall        float64           `json:"overall"` // 0-1
	PerHabit       []HabitCompletion `json:"per_habit"`
	TopPerforming  []HabitType       `json:"top_performing"`
	NeedsAttention []HabitType       `json:"needs_attention"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
}

// StreakPayload carries the data behind a streak card
type StreakPayload struct {
	HabitType HabitType `json:"habit_type"`
	Current   int       `json:"current"`
	Longest   int       `json:"longest"`
	IsBest    bool      `json:"is_best"`
}

// PatternPayload carries the data behind a weekly pattern card
type PatternPayload struct {
	HabitType        HabitType    `json:"habit_type"`
	PeakDay          time.Weekday `json:"peak_day"`
	ConsistencyScore float64      `json:"consistency_score"`
	Trend            Trend        `json:"trend"`
}

// CorrelationPayload carries the data behind a correlation card
type CorrelationPayload struct {
	Finding CorrelationFinding `json:"finding"`
}

// RecommendationPayload carries the data behind a recommendation card
type RecommendationPayload struct {
	OverallCompletion float64     `json:"overall_completion"`
	NeedsAttention    []HabitType `json:"needs_attention"`
}

// AchievementPayload carries the data behind an achievement card
type AchievementPayload struct {
	HabitType  HabitType `json:"habit_type"`
	StreakDays int       `json:"streak_days"`
}

// InsightCard is a ranked, typed, user-facing summary of one computed
// finding. Exactly one payload pointer matching Type is non-nil, so
// consumers can switch on Type instead of probing loose fields.
type InsightCard struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Priority    int         `json:"priority"`
	Expandable  bool        `json:"expandable"`
	Expanded    bool        `json:"expanded"`

	Streak         *StreakPayload         `json:"streak,omitempty"`
	Pattern        *PatternPayload        `json:"pattern,omitempty"`
	Correlation    *CorrelationPayload    `json:"correlation,omitempty"`
	Recommendation *RecommendationPayload `json:"recommendation,omitempty"`
	Achievement    *AchievementPayload    `json:"achievement,omitempty"`
}

// InsightBundle is the full cached result of one insight computation
type InsightBundle struct {
	Cards      []InsightCard `json:"cards"`
	Mood       Mood          `json:"mood"`
	Period     Period        `json:"period"`
	ComputedAt time.Time     `json:"computed_at"`
}

// Suggestion is one ranked conversational prompt
type Suggestion struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
}
