package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
	"github.com/davideorlandi/habitpulse/internal/core/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{svc: svc}
}

type createCompletionRequest struct {
	HabitID        string `json:"habit_id" binding:"required"`
	CompletionDate string `json:"completion_date" binding:"required"`
	Value          int    `json:"value"`
	Notes          string `json:"notes"`
}

type updateCompletionRequest struct {
	Value int    `json:"value"`
	Notes string `json:"notes"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/completions")
	{
		completions.POST("", h.Create)
		completions.PUT("/:id", h.Update)
		completions.DELETE("/:id", h.Delete)
	}

	router.GET("/habits/:id/completions", h.ListByHabit)
}

// parseDateParam parses an optional YYYY-MM-DD query value. A missing value
// yields the zero time.
func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}

	parsed, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

// Create godoc
// @Summary  Record a completion for a habit
// @Tags     completions
// @Accept   json
// @Produce  json
// @Param    completion  body  createCompletionRequest  true  "Completion to record"
// @Success  201  {object}  domain.Completion
// @Failure  400  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Failure  409  {object}  map[string]string
// @Router   /completions [post]
func (h *CompletionHandler) Create(c *gin.Context) {
	var req createCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(domain.DateLayout, req.CompletionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion_date format, expected YYYY-MM-DD"})
		return
	}

	completion, err := h.svc.Create(c.Request.Context(), services.CreateCompletionInput{
		HabitID:        req.HabitID,
		CompletionDate: date,
		Value:          req.Value,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, domain.ErrDuplicateCompletion):
			c.JSON(http.StatusConflict, gin.H{"error": "completion already recorded for this date"})
		case errors.Is(err, domain.ErrCompletionDateZero), errors.Is(err, domain.ErrInvalidValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, completion)
}

// ListByHabit godoc
// @Summary  List completions for a habit
// @Tags     completions
// @Produce  json
// @Param    id    path   string  true   "Habit ID"
// @Param    from  query  string  false  "Range start (YYYY-MM-DD)"
// @Param    to    query  string  false  "Range end (YYYY-MM-DD)"
// @Success  200  {array}  domain.Completion
// @Failure  404  {object}  map[string]string
// @Router   /habits/{id}/completions [get]
func (h *CompletionHandler) ListByHabit(c *gin.Context) {
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	list, err := h.svc.ListByHabit(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Update godoc
// @Summary  Update a completion's value or notes
// @Tags     completions
// @Accept   json
// @Produce  json
// @Param    id          path  string                   true  "Completion ID"
// @Param    completion  body  updateCompletionRequest  true  "Fields to update"
// @Success  200  {object}  domain.Completion
// @Failure  404  {object}  map[string]string
// @Router   /completions/{id} [put]
func (h *CompletionHandler) Update(c *gin.Context) {
	var req updateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	completion, err := h.svc.Update(c.Request.Context(), services.UpdateCompletionInput{
		ID:    c.Param("id"),
		Value: req.Value,
		Notes: req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompletionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "completion not found"})
		case errors.Is(err, domain.ErrInvalidValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, completion)
}

// Delete godoc
// @Summary  Delete a completion
// @Tags     completions
// @Param    id  path  string  true  "Completion ID"
// @Success  204
// @Failure  404  {object}  map[string]string
// @Router   /completions/{id} [delete]
func (h *CompletionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrCompletionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "completion not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
