package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ritualhq/backend/internal/config"
	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/internal/repository"
)

const (
	priorityAchievement    = 90
	priorityRecommendation = 85
	priorityPattern        = 80
	priorityCorrelation    = 75
	priorityStreak         = 70
	priorityDefault        = 50

	// achievementStreakDays promotes a streak card to an achievement
	achievementStreakDays = 7
	// activeStreakCardMin is the shortest streak worth a card of its own
	activeStreakCardMin = 2
	// lowCompletionThreshold triggers the recommendation card and the
	// concerned mood
	lowCompletionThreshold = 0.5
	// minConsistencyForCard keeps noisy weekly patterns off the cards
	minConsistencyForCard = 60.0
	// maxCards bounds the bundle after priority ranking
	maxCards = 4
)

type insightService struct {
	records repository.HabitRecordRepository
	cache   repository.CacheRepository
	log     logger.Logger

	loc            *time.Location
	lookbackDays   int
	patternWeeks   int
	insightTTL     time.Duration
	computeTimeout time.Duration
	now            func() time.Time
}

// NewInsightService wires the analytics pipeline against the record
// store and the durable cache.
func NewInsightService(records repository.HabitRecordRepository, cache repository.CacheRepository, log logger.Logger, cfg *config.Config) InsightService {
	return &insightService{
		records:        records,
		cache:          cache,
		log:            log,
		loc:            cfg.Location(),
		lookbackDays:   cfg.Analytics.LookbackDays,
		patternWeeks:   cfg.Analytics.PatternWeeks,
		insightTTL:     cfg.Analytics.InsightTTL,
		computeTimeout: cfg.Analytics.ComputeTimeout,
		now:            time.Now,
	}
}

func (s *insightService) fetchRecords(ctx context.Context, userID string, today time.Time) ([]models.HabitRecord, error) {
	start := today.AddDate(0, 0, -s.lookbackDays)
	records, err := s.records.GetByUserIDAndDateRange(ctx, userID, start, today)
	if err != nil {
		return nil, fmt.Errorf("fetching habit records: %w", err)
	}
	return records, nil
}

// computeStreaks fans the six per-habit streak walks out concurrently.
// The output slice is indexed like AllHabitTypes, so each goroutine
// writes its own slot and no locking is needed.
func computeStreaks(ctx context.Context, records []models.HabitRecord, today time.Time, loc *time.Location) result[[]models.HabitStreak] {
	out := make([]models.HabitStreak, len(models.AllHabitTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, habitType := range models.AllHabitTypes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("streak %s: %w", habitType, err)
			}
			out[i] = calculateStreak(records, habitType, today, loc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail[[]models.HabitStreak](err)
	}
	return ok(out)
}

// computePatterns fans the per-habit weekly pattern analysis out the
// same way as computeStreaks
func computePatterns(ctx context.Context, records []models.HabitRecord, today time.Time, loc *time.Location, weeks int) result[[]models.WeeklyPattern] {
	out := make([]models.WeeklyPattern, len(models.AllHabitTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, habitType := range models.AllHabitTypes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("pattern %s: %w", habitType, err)
			}
			out[i] = analyzeWeeklyPattern(records, habitType, today, loc, weeks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail[[]models.WeeklyPattern](err)
	}
	return ok(out)
}

func computeCorrelations(ctx context.Context, records []models.HabitRecord, today time.Time, loc *time.Location) result[[]models.CorrelationFinding] {
	if err := ctx.Err(); err != nil {
		return fail[[]models.CorrelationFinding](fmt.Errorf("correlations: %w", err))
	}
	return ok(analyzeCorrelations(records, today, loc))
}

func streakMap(streaks []models.HabitStreak) map[models.HabitType]models.HabitStreak {
	m := make(map[models.HabitType]models.HabitStreak, len(streaks))
	for _, s := range streaks {
		m[s.HabitType] = s
	}
	return m
}

// GenerateInsights returns the user's insight bundle, reading through
// the durable cache. A full recompute is bounded by the configured
// timeout; on expiry the caller gets the default bundle, never a retry.
func (s *insightService) GenerateInsights(ctx context.Context, userID string, period models.Period) (*models.InsightBundle, error) {
	now := s.now()
	log := s.log.WithContext(ctx)
	key := insightCacheKey(userID, period)

	if bundle, hit := cacheRead[models.InsightBundle](ctx, s.cache, log, key, now); hit {
		log.Debug("insight cache hit", logger.String("key", key))
		return bundle, nil
	}

	cctx, cancel := context.WithTimeout(ctx, s.computeTimeout)
	defer cancel()

	today := dateOnly(now, s.loc)
	bundle, cacheable := s.computeBundle(cctx, userID, period, today, now)

	if cacheable {
		// Write on the parent context so a compute-budget expiry right at
		// the end does not drop a finished bundle
		if err := cacheWrite(ctx, s.cache, key, bundle, now, s.insightTTL); err != nil {
			log.Warn("caching insight bundle failed", logger.Err(err))
		}
	}
	return bundle, nil
}

// computeBundle runs the four sub-computations and assembles cards.
// Each sub-computation's failure is logged and collapsed to its zero
// default here. A failed fetch or any collapsed sub-computation makes
// the bundle non-cacheable, so a degraded fallback never masks real
// data for the full TTL.
func (s *insightService) computeBundle(ctx context.Context, userID string, period models.Period, today, now time.Time) (*models.InsightBundle, bool) {
	log := s.log.WithContext(ctx)

	records, err := s.fetchRecords(ctx, userID, today)
	if err != nil {
		log.Error("insight computation falling back to defaults", logger.Err(err))
		return s.defaultBundle(period, now), false
	}

	var (
		streaksRes      result[[]models.HabitStreak]
		patternsRes     result[[]models.WeeklyPattern]
		correlationsRes result[[]models.CorrelationFinding]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { streaksRes = computeStreaks(gctx, records, today, s.loc); return nil })
	g.Go(func() error { patternsRes = computePatterns(gctx, records, today, s.loc, s.patternWeeks); return nil })
	g.Go(func() error { correlationsRes = computeCorrelations(gctx, records, today, s.loc); return nil })
	_ = g.Wait()

	logFailure := func(component string) func(error) {
		return func(err error) {
			log.Warn("insight sub-computation failed", logger.String("component", component), logger.Err(err))
		}
	}

	streaks, streaksOK := streaksRes.collapse(logFailure("streaks"))
	patterns, patternsOK := patternsRes.collapse(logFailure("patterns"))
	findings, findingsOK := correlationsRes.collapse(logFailure("correlations"))

	var rate models.CompletionRate
	rateOK := false
	if streaksOK {
		start, end := periodBounds(period, today)
		rateRes := func() result[models.CompletionRate] {
			if err := ctx.Err(); err != nil {
				return fail[models.CompletionRate](fmt.Errorf("completion rate: %w", err))
			}
			return ok(calculateCompletionRate(records, streakMap(streaks), start, end, today, s.loc))
		}()
		rate, rateOK = rateRes.collapse(logFailure("completion_rate"))
	}

	cards, mood := buildCards(streaks, patterns, findings, rate, rateOK)

	cacheable := streaksOK && patternsOK && findingsOK && rateOK && ctx.Err() == nil
	return &models.InsightBundle{
		Cards:      cards,
		Mood:       mood,
		Period:     period,
		ComputedAt: now,
	}, cacheable
}

func (s *insightService) defaultBundle(period models.Period, now time.Time) *models.InsightBundle {
	return &models.InsightBundle{
		Cards:      []models.InsightCard{defaultCard()},
		Mood:       models.MoodNeutral,
		Period:     period,
		ComputedAt: now,
	}
}

func defaultCard() models.InsightCard {
	return models.InsightCard{
		Type:           models.InsightTypeRecommendation,
		Title:          "No insights yet",
		Description:    "Start logging your habits and your first insights will appear here.",
		Icon:           "sparkles",
		Priority:       priorityDefault,
		Recommendation: &models.RecommendationPayload{},
	}
}

// buildCards assembles, ranks, and truncates the card list and derives
// the bundle mood. Mood starts neutral, drops to concerned on low
// overall completion, and any achievement overrides to positive.
func buildCards(streaks []models.HabitStreak, patterns []models.WeeklyPattern, findings []models.CorrelationFinding, rate models.CompletionRate, rateOK bool) ([]models.InsightCard, models.Mood) {
	cards := make([]models.InsightCard, 0, 8)
	hasAchievement := false

	for _, streak := range streaks {
		switch {
		case streak.CurrentStreak >= achievementStreakDays:
			hasAchievement = true
			cards = append(cards, models.InsightCard{
				Type:        models.InsightTypeAchievement,
				Title:       fmt.Sprintf("%d-day %s streak", streak.CurrentStreak, habitLabel(streak.HabitType)),
				Description: fmt.Sprintf("You have completed %s %d days in a row. That is how habits become automatic.", habitLabel(streak.HabitType), streak.CurrentStreak),
				Icon:        "trophy",
				Priority:    priorityAchievement,
				Expandable:  true,
				Achievement: &models.AchievementPayload{
					HabitType:  streak.HabitType,
					StreakDays: streak.CurrentStreak,
				},
			})
		case streak.CurrentStreak >= activeStreakCardMin:
			cards = append(cards, models.InsightCard{
				Type:        models.InsightTypeStreak,
				Title:       fmt.Sprintf("%s streak building", habitLabel(streak.HabitType)),
				Description: fmt.Sprintf("%d days and counting. Your best is %d.", streak.CurrentStreak, streak.LongestStreak),
				Icon:        "flame",
				Priority:    priorityStreak,
				Expandable:  true,
				Streak: &models.StreakPayload{
					HabitType: streak.HabitType,
					Current:   streak.CurrentStreak,
					Longest:   streak.LongestStreak,
					IsBest:    streak.CurrentStreak >= streak.LongestStreak,
				},
			})
		}
	}

	hasData := false
	for _, hc := range rate.PerHabit {
		if hc.Total > 0 {
			hasData = true
			break
		}
	}
	lowCompletion := rateOK && hasData && rate.Overall < lowCompletionThreshold
	if lowCompletion {
		cards = append(cards, models.InsightCard{
			Type:        models.InsightTypeRecommendation,
			Title:       "Completion is slipping",
			Description: fmt.Sprintf("You completed %.0f%% of your habits this period. Focus on one habit to rebuild momentum.", rate.Overall*100),
			Icon:        "compass",
			Priority:    priorityRecommendation,
			Expandable:  true,
			Recommendation: &models.RecommendationPayload{
				OverallCompletion: rate.Overall,
				NeedsAttention:    rate.NeedsAttention,
			},
		})
	}

	var bestPattern *models.WeeklyPattern
	for i := range patterns {
		p := &patterns[i]
		if p.ConsistencyScore < minConsistencyForCard {
			continue
		}
		if bestPattern == nil || p.ConsistencyScore > bestPattern.ConsistencyScore {
			bestPattern = p
		}
	}
	if bestPattern != nil {
		cards = append(cards, models.InsightCard{
			Type:        models.InsightTypePattern,
			Title:       fmt.Sprintf("%s is your steadiest habit", habitLabel(bestPattern.HabitType)),
			Description: fmt.Sprintf("Most consistent on %ss, trend %s.", bestPattern.PeakDay, bestPattern.Trend),
			Icon:        "calendar",
			Priority:    priorityPattern,
			Expandable:  true,
			Pattern: &models.PatternPayload{
				HabitType:        bestPattern.HabitType,
				PeakDay:          bestPattern.PeakDay,
				ConsistencyScore: bestPattern.ConsistencyScore,
				Trend:            bestPattern.Trend,
			},
		})
	}

	for _, finding := range findings {
		direction := "higher"
		if finding.Direction == models.DirectionNegative {
			direction = "lower"
		}
		cards = append(cards, models.InsightCard{
			Type:        models.InsightTypeCorrelation,
			Title:       fmt.Sprintf("%s tracks with %s", signalLabel(finding.SignalA), signalLabel(finding.SignalB)),
			Description: fmt.Sprintf("On days with more %s, your %s tends to be %s (%s correlation).", signalLabel(finding.SignalA), signalLabel(finding.SignalB), direction, finding.Strength),
			Icon:        "link",
			Priority:    priorityCorrelation,
			Expandable:  true,
			Correlation: &models.CorrelationPayload{Finding: finding},
		})
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Priority > cards[j].Priority
	})
	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}
	if len(cards) == 0 {
		cards = append(cards, defaultCard())
	}

	mood := models.MoodNeutral
	if lowCompletion {
		mood = models.MoodConcerned
	}
	if hasAchievement {
		mood = models.MoodPositive
	}
	return cards, mood
}

// GetSuggestions derives the fixed-size suggestion set from freshly
// computed signals. A record-fetch failure collapses to empty records,
// same as the sub-computation failures; the backfill list guarantees
// four prompts regardless.
func (s *insightService) GetSuggestions(ctx context.Context, userID string) ([]models.Suggestion, error) {
	log := s.log.WithContext(ctx)
	today := dateOnly(s.now(), s.loc)

	records, err := s.fetchRecords(ctx, userID, today)
	if err != nil {
		log.Error("suggestions falling back to defaults", logger.Err(err))
		records = nil
	}

	logFailure := func(component string) func(error) {
		return func(err error) {
			log.Warn("suggestion sub-computation failed", logger.String("component", component), logger.Err(err))
		}
	}
	streaks, _ := computeStreaks(ctx, records, today, s.loc).collapse(logFailure("streaks"))
	patterns, _ := computePatterns(ctx, records, today, s.loc, s.patternWeeks).collapse(logFailure("patterns"))
	findings, _ := computeCorrelations(ctx, records, today, s.loc).collapse(logFailure("correlations"))

	return buildSuggestions(streaks, patterns, findings), nil
}

// zeroStreaks is the documented fallback when streaks cannot be
// computed at all
func zeroStreaks() []models.HabitStreak {
	out := make([]models.HabitStreak, len(models.AllHabitTypes))
	for i, habitType := range models.AllHabitTypes {
		out[i] = models.HabitStreak{HabitType: habitType}
	}
	return out
}

// GetStreaks returns all six habit streaks in display order. A
// record-fetch failure is logged and substituted with zero streaks.
func (s *insightService) GetStreaks(ctx context.Context, userID string) ([]models.HabitStreak, error) {
	log := s.log.WithContext(ctx)
	today := dateOnly(s.now(), s.loc)

	records, err := s.fetchRecords(ctx, userID, today)
	if err != nil {
		log.Error("streaks falling back to zero defaults", logger.Err(err))
		records = nil
	}

	streaks, ok := computeStreaks(ctx, records, today, s.loc).collapse(func(err error) {
		log.Warn("streak computation failed", logger.Err(err))
	})
	if !ok {
		return zeroStreaks(), nil
	}
	return streaks, nil
}

// GetStreak returns one habit's streak, or the zero streak when the
// record store is unreachable. The habit type is validated at the HTTP
// boundary.
func (s *insightService) GetStreak(ctx context.Context, userID string, habitType models.HabitType) (*models.HabitStreak, error) {
	today := dateOnly(s.now(), s.loc)
	records, err := s.fetchRecords(ctx, userID, today)
	if err != nil {
		s.log.WithContext(ctx).Error("streak falling back to zero default",
			logger.Err(err), logger.String("habit_type", string(habitType)))
		records = nil
	}

	streak := calculateStreak(records, habitType, today, s.loc)
	return &streak, nil
}

// GetCompletionRate computes the completion summary for one period.
// Fetch and streak failures collapse to their zero defaults.
func (s *insightService) GetCompletionRate(ctx context.Context, userID string, period models.Period) (*models.CompletionRate, error) {
	log := s.log.WithContext(ctx)
	today := dateOnly(s.now(), s.loc)

	records, err := s.fetchRecords(ctx, userID, today)
	if err != nil {
		log.Error("completion rate falling back to defaults", logger.Err(err))
		records = nil
	}

	streaks, _ := computeStreaks(ctx, records, today, s.loc).collapse(func(err error) {
		log.Warn("streak computation failed", logger.Err(err))
	})

	start, end := periodBounds(period, today)
	rate := calculateCompletionRate(records, streakMap(streaks), start, end, today, s.loc)
	return &rate, nil
}

// InvalidateInsights drops the user's cached bundles for every period.
// The mutation layer calls this whenever a record for "today" changes.
func (s *insightService) InvalidateInsights(ctx context.Context, userID string) error {
	var errs []error
	for _, period := range []models.Period{models.PeriodWeek, models.PeriodCalendarWeek, models.PeriodMonth} {
		if err := s.cache.Delete(ctx, insightCacheKey(userID, period)); err != nil {
			errs = append(errs, fmt.Errorf("invalidating %s insights: %w", period, err))
		}
	}
	return errors.Join(errs...)
}
