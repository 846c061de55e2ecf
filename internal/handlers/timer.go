package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/middleware"
	"github.com/tasktracker/tasktracker-api/internal/tracker"
)

type TimerHandler struct {
	tracker *tracker.Tracker
}

func NewTimerHandler(tracker *tracker.Tracker) *TimerHandler {
	return &TimerHandler{
		tracker: tracker,
	}
}

// Status reports the identity's stopwatch state.
func (h *TimerHandler) Status(c *gin.Context) {
	identityID, exists := middleware.GetIdentityID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	status, active := h.tracker.Status(identityID)
	c.JSON(http.StatusOK, gin.H{
		"active": active,
		"timer":  status,
	})
}

// Start begins a stopwatch for the identity.
func (h *TimerHandler) Start(c *gin.Context) {
	identityID, exists := middleware.GetIdentityID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type StartRequest struct {
		Description string `json:"description"`
		TaskID      string `json:"taskId"`
	}

	var req StartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	if err := h.tracker.Start(identityID, req.Description, req.TaskID); err != nil {
		respondTimerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Timer started",
	})
}

// Pause suspends the stopwatch without losing elapsed time.
func (h *TimerHandler) Pause(c *gin.Context) {
	identityID, exists := middleware.GetIdentityID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.tracker.Pause(identityID); err != nil {
		respondTimerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Timer paused",
	})
}

// Resume restarts a paused stopwatch.
func (h *TimerHandler) Resume(c *gin.Context) {
	identityID, exists := middleware.GetIdentityID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.tracker.Resume(identityID); err != nil {
		respondTimerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Timer resumed",
	})
}

// Stop ends the stopwatch. Runs with elapsed time are recorded as time
// entries; zero-length runs are discarded.
func (h *TimerHandler) Stop(c *gin.Context) {
	identityID, exists := middleware.GetIdentityID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entry, recorded, err := h.tracker.Stop(identityID)
	if err != nil {
		respondTimerError(c, err)
		return
	}

	if !recorded {
		c.JSON(http.StatusOK, gin.H{
			"message": "Timer discarded",
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func respondTimerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrAlreadyRunning):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, tracker.ErrNotRunning), errors.Is(err, tracker.ErrNotPaused):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
