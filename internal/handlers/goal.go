package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/store"
)

type GoalHandler struct {
	store *store.Store
}

func NewGoalHandler(store *store.Store) *GoalHandler {
	return &GoalHandler{
		store: store,
	}
}

// ListGoals returns the current identity's goals.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"goals": h.store.Goals(),
	})
}

// CreateGoal creates a new goal with no milestones and zero progress.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	type CreateGoalRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		TargetDate  *time.Time `json:"targetDate"`
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	goal, err := h.store.AddGoal(models.Goal{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create goal")
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// UpdateGoal merges the submitted fields into the goal.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var patch models.GoalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	goal, found, err := h.store.UpdateGoal(c.Param("id"), patch)
	if err != nil {
		apierrors.InternalError(c, "Failed to update goal")
		return
	}
	if !found {
		apierrors.NotFound(c, "Goal not found")
		return
	}

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal deletes a goal along with its milestones.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	found, err := h.store.DeleteGoal(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to delete goal")
		return
	}
	if !found {
		apierrors.NotFound(c, "Goal not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goal deleted successfully",
	})
}

// AddMilestone appends a milestone to the goal. The goal's stored progress is
// left as is until a milestone is toggled.
func (h *GoalHandler) AddMilestone(c *gin.Context) {
	type AddMilestoneRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req AddMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	milestone, found, err := h.store.AddMilestone(c.Param("id"), req.Title)
	if err != nil {
		apierrors.InternalError(c, "Failed to add milestone")
		return
	}
	if !found {
		apierrors.NotFound(c, "Goal not found")
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

// ToggleMilestone flips a milestone and returns the goal with its recomputed
// progress.
func (h *GoalHandler) ToggleMilestone(c *gin.Context) {
	goal, found, err := h.store.ToggleMilestone(c.Param("id"), c.Param("milestone_id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to toggle milestone")
		return
	}
	if !found {
		apierrors.NotFound(c, "Milestone not found")
		return
	}

	c.JSON(http.StatusOK, goal)
}
