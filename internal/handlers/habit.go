package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/tasktracker-api/internal/dto"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/store"
)

type HabitHandler struct {
	store *store.Store
}

func NewHabitHandler(store *store.Store) *HabitHandler {
	return &HabitHandler{
		store: store,
	}
}

// ListHabits returns the current identity's habits with their streaks.
func (h *HabitHandler) ListHabits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"habits": dto.ToHabitDTOs(h.store.Habits(), time.Now()),
	})
}

// CreateHabit creates a new habit.
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	type CreateHabitRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	habit, err := h.store.AddHabit(models.Habit{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create habit")
		return
	}

	c.JSON(http.StatusCreated, dto.ToHabitDTO(habit, time.Now()))
}

// UpdateHabit merges the submitted fields into the habit.
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var patch models.HabitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	habit, found, err := h.store.UpdateHabit(c.Param("id"), patch)
	if err != nil {
		apierrors.InternalError(c, "Failed to update habit")
		return
	}
	if !found {
		apierrors.NotFound(c, "Habit not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(habit, time.Now()))
}

// DeleteHabit deletes a habit.
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	found, err := h.store.DeleteHabit(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to delete habit")
		return
	}
	if !found {
		apierrors.NotFound(c, "Habit not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Habit deleted successfully",
	})
}

// ToggleCompletion flips the habit's completion for a day, defaulting to
// today.
func (h *HabitHandler) ToggleCompletion(c *gin.Context) {
	type ToggleRequest struct {
		Date string `json:"date"`
	}

	var req ToggleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	day := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	habit, found, err := h.store.ToggleHabitCompletion(c.Param("id"), day)
	if err != nil {
		apierrors.InternalError(c, "Failed to toggle completion")
		return
	}
	if !found {
		apierrors.NotFound(c, "Habit not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitDTO(habit, time.Now()))
}
