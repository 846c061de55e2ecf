package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/tasktracker-api/internal/constants"
	"github.com/tasktracker/tasktracker-api/internal/metrics"
	"github.com/tasktracker/tasktracker-api/internal/store"
)

type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(store *store.Store) *DashboardHandler {
	return &DashboardHandler{
		store: store,
	}
}

// Dashboard returns the overview counters and short lists for the landing
// page.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	now := time.Now()
	tasks := h.store.Tasks()
	entries := h.store.TimeEntries()

	todaySeconds := metrics.TotalDuration(entries, metrics.WindowToday, now)

	c.JSON(http.StatusOK, gin.H{
		"activeTasks":    metrics.ActiveTasks(tasks),
		"habitCount":     len(h.store.Habits()),
		"goalCount":      len(h.store.Goals()),
		"todaySeconds":   todaySeconds,
		"todayFormatted": metrics.FormatHoursMinutes(todaySeconds),
		"dueToday":       metrics.DueToday(tasks, now),
		"upcoming":       metrics.Upcoming(tasks, constants.UpcomingTaskLimit),
		"topGoals":       metrics.TopActiveGoals(h.store.Goals(), constants.DashboardGoalLimit),
	})
}

// Analytics returns the aggregated series behind the charts.
func (h *DashboardHandler) Analytics(c *gin.Context) {
	now := time.Now()
	tasks := h.store.Tasks()
	habits := h.store.Habits()
	goals := h.store.Goals()
	entries := h.store.TimeEntries()

	type habitConsistency struct {
		Name        string `json:"name"`
		Consistency int    `json:"consistency"`
	}
	consistency := make([]habitConsistency, len(habits))
	for i, habit := range habits {
		consistency[i] = habitConsistency{
			Name:        habit.Name,
			Consistency: metrics.Consistency(habit.Completions, constants.ConsistencyWindowDays, now),
		}
	}

	type goalProgress struct {
		Title    string `json:"title"`
		Progress int    `json:"progress"`
	}
	progress := make([]goalProgress, len(goals))
	for i, goal := range goals {
		progress[i] = goalProgress{
			Title:    goal.Title,
			Progress: goal.Progress,
		}
	}

	weekSeconds := metrics.TotalDuration(entries, metrics.WindowWeek, now)

	c.JSON(http.StatusOK, gin.H{
		"taskStats":        metrics.TasksByStatus(tasks),
		"byPriority":       metrics.TasksByPriority(tasks),
		"completedPerDay":  metrics.CompletedPerDay(tasks, constants.TrendWindowDays, now),
		"habitConsistency": consistency,
		"goalProgress":     progress,
		"timeByDay":        metrics.DailyDurations(entries, constants.TrendWindowDays, now),
		"weekSeconds":      weekSeconds,
		"weekFormatted":    metrics.FormatHoursMinutes(weekSeconds),
	})
}
