package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davideorlandi/habitpulse/internal/core/analytics"
	"github.com/davideorlandi/habitpulse/internal/core/domain"
	"github.com/davideorlandi/habitpulse/internal/core/services"
)

const defaultWindowDays = 30

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/analytics")
	{
		group.GET("/summary", h.GetSummary)
		group.GET("/trend", h.GetTrend)
		group.GET("/categories", h.GetCategoryStats)
		group.GET("/habits", h.GetHabitSeries)
	}
}

// The engine keeps rates as float64; the API serves integer percentages.
func pct(rate float64) int {
	return int(math.Round(rate))
}

type summaryResponse struct {
	Date             string  `json:"date"`
	TotalHabits      int     `json:"total_habits"`
	ActiveHabits     int     `json:"active_habits"`
	CompletedToday   int     `json:"completed_today"`
	TodayRate        int     `json:"today_rate"`
	LongestStreak    int     `json:"longest_streak"`
	AvgCurrentStreak float64 `json:"avg_current_streak"`
	WeekRate         int     `json:"week_rate"`
	PrevWeekRate     int     `json:"prev_week_rate"`
	WeekDelta        int     `json:"week_delta"`
}

type trendBucketResponse struct {
	StartDate string `json:"start_date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Rate      int    `json:"completion_rate"`
}

type categoryStatResponse struct {
	Category         string  `json:"category"`
	HabitCount       int     `json:"habit_count"`
	CompletionRate   int     `json:"completion_rate"`
	AvgCurrentStreak float64 `json:"avg_current_streak"`
}

func parseWindowDays(c *gin.Context) (int, bool) {
	raw := c.Query("window_days")
	if raw == "" {
		return defaultWindowDays, true
	}

	windowDays, err := strconv.Atoi(raw)
	if err != nil || windowDays < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be a positive integer"})
		return 0, false
	}
	return windowDays, true
}

// GetSummary godoc
// @Summary  Progress summary across all habits
// @Tags     analytics
// @Produce  json
// @Param    as_of  query  string  false  "Reference date (YYYY-MM-DD), defaults to today"
// @Success  200  {object}  summaryResponse
// @Router   /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	summary, err := h.svc.GetSummary(c.Request.Context(), asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		Date:             summary.Date,
		TotalHabits:      summary.TotalHabits,
		ActiveHabits:     summary.ActiveHabits,
		CompletedToday:   summary.CompletedToday,
		TodayRate:        pct(summary.TodayRate),
		LongestStreak:    summary.LongestStreak,
		AvgCurrentStreak: summary.AvgCurrentStreak,
		WeekRate:         pct(summary.WeekRate),
		PrevWeekRate:     pct(summary.PrevWeekRate),
		WeekDelta:        pct(summary.WeekDelta),
	})
}

// GetTrend godoc
// @Summary  Completion-rate trend over a window
// @Tags     analytics
// @Produce  json
// @Param    as_of        query  string  false  "Reference date (YYYY-MM-DD), defaults to today"
// @Param    window_days  query  int     false  "Window length in days (default 30)"
// @Param    granularity  query  string  false  "daily or weekly (default daily)"
// @Success  200  {array}  trendBucketResponse
// @Failure  400  {object}  map[string]string
// @Router   /analytics/trend [get]
func (h *AnalyticsHandler) GetTrend(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}
	windowDays, ok := parseWindowDays(c)
	if !ok {
		return
	}

	granularity := c.DefaultQuery("granularity", analytics.GranularityDaily)

	buckets, err := h.svc.GetTrend(c.Request.Context(), asOf, windowDays, granularity)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidWindow) || errors.Is(err, analytics.ErrInvalidGranularity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trend"})
		return
	}

	resp := make([]trendBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		resp = append(resp, trendBucketResponse{
			StartDate: domain.DateKey(b.StartDate),
			Completed: b.Completed,
			Total:     b.Total,
			Rate:      pct(b.Rate),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetCategoryStats godoc
// @Summary  Per-category habit statistics
// @Tags     analytics
// @Produce  json
// @Param    as_of  query  string  false  "Reference date (YYYY-MM-DD), defaults to today"
// @Param    sort   query  string  false  "count, rate or streak (default count)"
// @Success  200  {array}  categoryStatResponse
// @Router   /analytics/categories [get]
func (h *AnalyticsHandler) GetCategoryStats(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	sortMetric := c.DefaultQuery("sort", analytics.SortByCount)

	stats, err := h.svc.GetCategoryStats(c.Request.Context(), asOf, sortMetric)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute category stats"})
		return
	}

	resp := make([]categoryStatResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, categoryStatResponse{
			Category:         s.Category,
			HabitCount:       s.HabitCount,
			CompletionRate:   pct(s.CompletionRate),
			AvgCurrentStreak: s.AvgCurrentStreak,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetHabitSeries godoc
// @Summary  Per-habit daily progress series for charts
// @Tags     analytics
// @Produce  json
// @Param    as_of        query  string  false  "Reference date (YYYY-MM-DD), defaults to today"
// @Param    window_days  query  int     false  "Window length in days (default 30)"
// @Success  200  {array}  analytics.HabitSeries
// @Failure  400  {object}  map[string]string
// @Router   /analytics/habits [get]
func (h *AnalyticsHandler) GetHabitSeries(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}
	windowDays, ok := parseWindowDays(c)
	if !ok {
		return
	}

	series, err := h.svc.GetHabitSeries(c.Request.Context(), asOf, windowDays)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute habit series"})
		return
	}

	c.JSON(http.StatusOK, series)
}
