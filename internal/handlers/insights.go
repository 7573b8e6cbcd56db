package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ritualhq/backend/internal/apierror"
	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/internal/service"
)

// InsightsHandler handles insight-related HTTP requests
type InsightsHandler struct {
	insights service.InsightService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insights service.InsightService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// queryPeriod parses the period query parameter, defaulting to the
// rolling week. Writes the validation problem itself on failure.
func queryPeriod(c *gin.Context) (models.Period, bool) {
	period := models.Period(c.DefaultQuery("period", string(models.PeriodWeek)))
	if !period.IsValid() {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
			{Field: "period", Message: "must be one of week, calendar_week, month", Code: "invalid_period"},
		}))
		return "", false
	}
	return period, true
}

// GetInsights returns the user's ranked insight bundle
// GET /api/v1/insights?period=week
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID := c.GetString("user_id")
	period, ok := queryPeriod(c)
	if !ok {
		return
	}

	log := logger.Ctx(c.Request.Context())

	bundle, err := h.insights.GenerateInsights(c.Request.Context(), userID, period)
	if err != nil {
		log.Error("failed to generate insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// GetSuggestions returns the fixed-size ranked suggestion set
// GET /api/v1/insights/suggestions
func (h *InsightsHandler) GetSuggestions(c *gin.Context) {
	userID := c.GetString("user_id")
	log := logger.Ctx(c.Request.Context())

	suggestions, err := h.insights.GetSuggestions(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to build suggestions", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	// clients get the ranked prompt texts; priority is internal
	texts := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		texts = append(texts, s.Text)
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": texts})
}

// GetStreaks returns streaks for all six habit types
// GET /api/v1/insights/streaks
func (h *InsightsHandler) GetStreaks(c *gin.Context) {
	userID := c.GetString("user_id")
	log := logger.Ctx(c.Request.Context())

	streaks, err := h.insights.GetStreaks(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to compute streaks", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"streaks": streaks})
}

// GetStreak returns the streak for one habit type
// GET /api/v1/insights/streaks/:type
func (h *InsightsHandler) GetStreak(c *gin.Context) {
	userID := c.GetString("user_id")

	var params struct {
		Type models.HabitType `uri:"type" binding:"required,habittype"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "habit type", c.Param("type")))
		return
	}
	habitType := params.Type

	log := logger.Ctx(c.Request.Context())

	streak, err := h.insights.GetStreak(c.Request.Context(), userID, habitType)
	if err != nil {
		log.Error("failed to compute streak", logger.Err(err), logger.String("habit_type", string(habitType)))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, streak)
}

// GetCompletionRate returns the completion summary for a period
// GET /api/v1/insights/completion?period=week
func (h *InsightsHandler) GetCompletionRate(c *gin.Context) {
	userID := c.GetString("user_id")
	period, ok := queryPeriod(c)
	if !ok {
		return
	}

	log := logger.Ctx(c.Request.Context())

	rate, err := h.insights.GetCompletionRate(c.Request.Context(), userID, period)
	if err != nil {
		log.Error("failed to compute completion rate", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, rate)
}

// InvalidateInsights drops the user's cached bundles so the next read
// recomputes. Called by the record mutation layer after a change to
// today's data.
// POST /api/v1/insights/invalidate
func (h *InsightsHandler) InvalidateInsights(c *gin.Context) {
	userID := c.GetString("user_id")
	log := logger.Ctx(c.Request.Context())

	if err := h.insights.InvalidateInsights(c.Request.Context(), userID); err != nil {
		log.Error("failed to invalidate insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
