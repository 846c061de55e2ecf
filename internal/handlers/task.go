package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/store"
)

type TaskHandler struct {
	store *store.Store
}

func NewTaskHandler(store *store.Store) *TaskHandler {
	return &TaskHandler{
		store: store,
	}
}

// ListTasks returns the current identity's tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tasks": h.store.Tasks(),
	})
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"dueDate"`
		Tags        []string            `json:"tags"`
		Subtasks    []models.Subtask    `json:"subtasks"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.store.AddTask(models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Subtasks:    req.Subtasks,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask merges the submitted fields into the task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, found, err := h.store.UpdateTask(c.Param("id"), patch)
	if err != nil {
		apierrors.InternalError(c, "Failed to update task")
		return
	}
	if !found {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	found, err := h.store.DeleteTask(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to delete task")
		return
	}
	if !found {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
