package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritualhq/backend/internal/models"
)

// suggestionCount is the fixed size of every suggestion response
const suggestionCount = 4

var habitLabels = map[models.HabitType]string{
	models.HabitSleep:      "sleep",
	models.HabitWater:      "water",
	models.HabitRun:        "running",
	models.HabitGym:        "gym",
	models.HabitReflect:    "reflection",
	models.HabitColdShower: "cold shower",
}

func habitLabel(t models.HabitType) string {
	if label, ok := habitLabels[t]; ok {
		return label
	}
	return string(t)
}

func signalLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// fallbackSuggestions backfills the response when the signals produce
// fewer than four prompts. Order matters; earlier entries go first.
var fallbackSuggestions = []models.Suggestion{
	{Text: "Review your week so far and pick one habit to focus on tomorrow.", Priority: 30},
	{Text: "Logging at the same time each day makes your patterns easier to spot.", Priority: 25},
	{Text: "Small habits compound. One completed day is always worth logging.", Priority: 20},
	{Text: "Check your streaks to see which habit deserves attention today.", Priority: 15},
}

// buildSuggestions derives ranked conversational prompts from the same
// computed signals the insight cards use. It always returns exactly
// four, priority-sorted.
func buildSuggestions(streaks []models.HabitStreak, patterns []models.WeeklyPattern, findings []models.CorrelationFinding) []models.Suggestion {
	suggestions := make([]models.Suggestion, 0, suggestionCount)

	// Streak prompts
	var weakest *models.HabitStreak
	for i := range streaks {
		s := &streaks[i]
		if s.CurrentStreak == 0 {
			continue
		}
		if weakest == nil || s.CurrentStreak < weakest.CurrentStreak {
			weakest = s
		}
	}
	if weakest == nil {
		suggestions = append(suggestions, models.Suggestion{
			Text:     "Pick one habit and complete it today to start your first streak.",
			Priority: 100,
		})
	} else if weakest.CurrentStreak < 3 {
		suggestions = append(suggestions, models.Suggestion{
			Text:     fmt.Sprintf("Your %s streak is %d days old. Complete it today to make it stick.", habitLabel(weakest.HabitType), weakest.CurrentStreak),
			Priority: 90,
		})
	}

	// Pattern prompts, driven by the best-sampled habit
	var best *models.WeeklyPattern
	for i := range patterns {
		p := &patterns[i]
		if best == nil || p.SampleDays > best.SampleDays {
			best = p
		}
	}
	if best == nil || best.SampleDays < minSampleDaysForConsistency {
		suggestions = append(suggestions, models.Suggestion{
			Text:     "Log a couple of weeks of data and your weekly patterns will start to show.",
			Priority: 70,
		})
	} else {
		switch {
		case best.ConsistencyScore < 30:
			suggestions = append(suggestions, models.Suggestion{
				Text:     fmt.Sprintf("Your %s habit swings a lot across the week. Try anchoring it to a fixed time of day.", habitLabel(best.HabitType)),
				Priority: 80,
			})
		case best.ConsistencyScore < 60:
			suggestions = append(suggestions, models.Suggestion{
				Text:     fmt.Sprintf("Your %s habit is getting steadier. A consistent %s would smooth out the dips.", habitLabel(best.HabitType), best.PeakDay),
				Priority: 60,
			})
		case best.ConsistencyScore >= 80:
			suggestions = append(suggestions, models.Suggestion{
				Text:     fmt.Sprintf("Your %s routine is rock solid. A good moment to level up another habit.", habitLabel(best.HabitType)),
				Priority: 40,
			})
		}
	}

	// Correlation prompt from the strongest surfaced finding
	if len(findings) > 0 {
		f := findings[0]
		verb := "rise together"
		if f.Direction == models.DirectionNegative {
			verb = "pull against each other"
		}
		suggestions = append(suggestions, models.Suggestion{
			Text:     fmt.Sprintf("Your %s and %s %s. Improving one tends to move the other.", signalLabel(f.SignalA), signalLabel(f.SignalB), verb),
			Priority: 75,
		})
	}

	for _, fb := range fallbackSuggestions {
		if len(suggestions) >= suggestionCount {
			break
		}
		suggestions = append(suggestions, fb)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})
	return suggestions[:suggestionCount]
}
