package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
	"github.com/davideorlandi/habitpulse/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Cadence     string `json:"cadence"`
	TargetValue int    `json:"target_value"`
}

type updateHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Cadence     string `json:"cadence"`
	TargetValue int    `json:"target_value"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

func isHabitValidationError(err error) bool {
	return errors.Is(err, domain.ErrHabitNameEmpty) ||
		errors.Is(err, domain.ErrHabitNameTooLong) ||
		errors.Is(err, domain.ErrHabitCategoryTooLong) ||
		errors.Is(err, domain.ErrInvalidCadence) ||
		errors.Is(err, domain.ErrInvalidTargetValue)
}

// Create godoc
// @Summary  Create a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    habit  body  createHabitRequest  true  "Habit to create"
// @Success  201  {object}  domain.Habit
// @Failure  400  {object}  map[string]string
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Cadence:     req.Cadence,
		TargetValue: req.TargetValue,
	})
	if err != nil {
		if isHabitValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary  List all habits
// @Tags     habits
// @Produce  json
// @Success  200  {array}  domain.Habit
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary  Get a habit by id
// @Tags     habits
// @Produce  json
// @Param    id  path  string  true  "Habit ID"
// @Success  200  {object}  domain.Habit
// @Failure  404  {object}  map[string]string
// @Router   /habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	habit, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Update godoc
// @Summary  Update a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    id     path  string              true  "Habit ID"
// @Param    habit  body  updateHabitRequest  true  "Fields to update"
// @Success  200  {object}  domain.Habit
// @Failure  400  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Cadence:     req.Cadence,
		TargetValue: req.TargetValue,
	})
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		if isHabitValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary  Delete a habit and its completions
// @Tags     habits
// @Param    id  path  string  true  "Habit ID"
// @Success  204
// @Failure  404  {object}  map[string]string
// @Router   /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
