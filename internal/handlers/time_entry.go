package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/store"
)

type TimeEntryHandler struct {
	store *store.Store
}

func NewTimeEntryHandler(store *store.Store) *TimeEntryHandler {
	return &TimeEntryHandler{
		store: store,
	}
}

// ListTimeEntries returns the current identity's time entries.
func (h *TimeEntryHandler) ListTimeEntries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timeEntries": h.store.TimeEntries(),
	})
}

// CreateTimeEntry records a manual time entry. The duration is taken as
// supplied; overlapping entries are accepted.
func (h *TimeEntryHandler) CreateTimeEntry(c *gin.Context) {
	type CreateTimeEntryRequest struct {
		Description string    `json:"description"`
		TaskID      string    `json:"taskId"`
		StartTime   time.Time `json:"startTime" binding:"required"`
		EndTime     time.Time `json:"endTime" binding:"required"`
		Duration    int       `json:"duration" binding:"required,min=1"`
	}

	var req CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.store.AddTimeEntry(models.TimeEntry{
		Description: req.Description,
		TaskID:      req.TaskID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Duration:    req.Duration,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create time entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateTimeEntry merges the submitted fields into the entry.
func (h *TimeEntryHandler) UpdateTimeEntry(c *gin.Context) {
	var patch models.TimeEntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, found, err := h.store.UpdateTimeEntry(c.Param("id"), patch)
	if err != nil {
		apierrors.InternalError(c, "Failed to update time entry")
		return
	}
	if !found {
		apierrors.NotFound(c, "Time entry not found")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteTimeEntry deletes a time entry.
func (h *TimeEntryHandler) DeleteTimeEntry(c *gin.Context) {
	found, err := h.store.DeleteTimeEntry(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to delete time entry")
		return
	}
	if !found {
		apierrors.NotFound(c, "Time entry not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Time entry deleted successfully",
	})
}
