package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
	"github.com/davideorlandi/habitpulse/internal/core/services"
)

type StreakHandler struct {
	svc *services.StreakService
}

func NewStreakHandler(svc *services.StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

type streakResponse struct {
	HabitID        string `json:"habit_id"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastCompletion string `json:"last_completion,omitempty"`
}

func toStreakResponse(s *domain.Streak) streakResponse {
	resp := streakResponse{
		HabitID:       s.HabitID,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
	}
	if s.LastCompletion != nil {
		resp.LastCompletion = domain.DateKey(*s.LastCompletion)
	}
	return resp
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	streaks := router.Group("/streaks")
	{
		streaks.GET("/:habitID", h.Get)
		streaks.POST("/:habitID/recalculate", h.Recalculate)
	}
}

// Get godoc
// @Summary  Get current and longest streak for a habit
// @Tags     streaks
// @Produce  json
// @Param    habitID  path   string  true   "Habit ID"
// @Param    as_of    query  string  false  "Reference date (YYYY-MM-DD), defaults to today"
// @Success  200  {object}  streakResponse
// @Failure  404  {object}  map[string]string
// @Router   /streaks/{habitID} [get]
func (h *StreakHandler) Get(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	streak, err := h.svc.GetByHabitID(c.Request.Context(), c.Param("habitID"), asOf)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toStreakResponse(streak))
}

// Recalculate godoc
// @Summary  Force a streak recomputation from the completion history
// @Tags     streaks
// @Produce  json
// @Param    habitID  path   string  true   "Habit ID"
// @Param    as_of    query  string  false  "Reference date (YYYY-MM-DD), defaults to today"
// @Success  200  {object}  streakResponse
// @Failure  404  {object}  map[string]string
// @Router   /streaks/{habitID}/recalculate [post]
func (h *StreakHandler) Recalculate(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	streak, err := h.svc.Recalculate(c.Request.Context(), c.Param("habitID"), asOf)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toStreakResponse(streak))
}

// parseAsOf resolves the optional as_of query parameter, defaulting to the
// current UTC date.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now().UTC(), true
	}

	parsed, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}
