package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasktracker/tasktracker-api/internal/models"
)

var today = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) // a Monday

func day(offset int) string {
	return DayKey(today.AddDate(0, 0, offset))
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	completions := []string{day(0), day(-1), day(-2)}
	require.Equal(t, 3, Streak(completions, today))
}

func TestStreak_BrokenChain(t *testing.T) {
	// A completion two days ago with a gap yesterday yields no streak.
	require.Equal(t, 0, Streak([]string{day(-2)}, today))
}

func TestStreak_TodayPendingDoesNotBreak(t *testing.T) {
	// Today absent: the walk starts at yesterday and today is excluded.
	completions := []string{day(-1), day(-2)}
	require.Equal(t, 2, Streak(completions, today))
}

func TestStreak_Empty(t *testing.T) {
	require.Equal(t, 0, Streak(nil, today))
}

func TestConsistency(t *testing.T) {
	// 15 completed days of a 30-day window.
	completions := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		completions = append(completions, day(-2*i))
	}
	require.Equal(t, 50, Consistency(completions, 30, today))

	// Days outside the window don't count.
	require.Equal(t, 0, Consistency([]string{day(-31)}, 30, today))
	require.Equal(t, 0, Consistency(completions, 0, today))
}

func TestCompletedOn(t *testing.T) {
	completions := []string{day(0)}
	require.True(t, CompletedOn(completions, today.Add(5*time.Hour)))
	require.False(t, CompletedOn(completions, today.AddDate(0, 0, -1)))
}

func TestStartOfWeek_SundayStart(t *testing.T) {
	start := StartOfWeek(today)
	require.Equal(t, time.Sunday, start.Weekday())
	require.Equal(t, "2026-08-30", DayKey(start))
	require.Equal(t, 0, start.Hour())

	// A Sunday is its own week start.
	sunday := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	require.Equal(t, "2026-08-30", DayKey(StartOfWeek(sunday)))
}

func TestTotalDuration_Windows(t *testing.T) {
	entries := []models.TimeEntry{
		{StartTime: today.Add(-time.Hour), Duration: 3600},
		{StartTime: today.AddDate(0, 0, -1), Duration: 1800}, // Sunday, this week
		{StartTime: today.AddDate(0, 0, -3), Duration: 7200}, // Friday, last week
		{StartTime: today.AddDate(0, 0, -30), Duration: 600},
	}

	require.Equal(t, 13200, TotalDuration(entries, WindowAll, today))
	require.Equal(t, 3600, TotalDuration(entries, WindowToday, today))
	require.Equal(t, 5400, TotalDuration(entries, WindowWeek, today))
}

func TestFormatHoursMinutes(t *testing.T) {
	require.Equal(t, "1h 30m", FormatHoursMinutes(5400))
	require.Equal(t, "0h 0m", FormatHoursMinutes(0))
	require.Equal(t, "0h 0m", FormatHoursMinutes(59))
	require.Equal(t, "2h 0m", FormatHoursMinutes(7200))
}

func TestDailyDurations(t *testing.T) {
	entries := []models.TimeEntry{
		{StartTime: today, Duration: 100},
		{StartTime: today.Add(-time.Hour), Duration: 50},
		{StartTime: today.AddDate(0, 0, -6), Duration: 30},
		{StartTime: today.AddDate(0, 0, -7), Duration: 999}, // outside the window
	}

	buckets := DailyDurations(entries, 7, today)
	require.Len(t, buckets, 7)
	require.Equal(t, day(-6), buckets[0].Date)
	require.Equal(t, 30, buckets[0].Seconds)
	require.Equal(t, day(0), buckets[6].Date)
	require.Equal(t, 150, buckets[6].Seconds)
	require.Equal(t, 0, buckets[3].Seconds)
}

func TestTasksByStatus(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusTodo},
		{Status: models.TaskStatusTodo},
		{Status: models.TaskStatusInProgress},
		{Status: models.TaskStatusDone},
	}

	stats := TasksByStatus(tasks)
	require.Equal(t, TaskStats{Total: 4, Todo: 2, InProgress: 1, Done: 1}, stats)
}

func TestTasksByPriority(t *testing.T) {
	tasks := []models.Task{
		{Priority: models.TaskPriorityHigh},
		{Priority: models.TaskPriorityLow},
		{Priority: models.TaskPriorityLow},
	}

	require.Equal(t, PriorityCounts{High: 1, Low: 2}, TasksByPriority(tasks))
}

func TestActiveTasks(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusTodo},
		{Status: models.TaskStatusInProgress},
		{Status: models.TaskStatusDone},
	}
	require.Equal(t, 2, ActiveTasks(tasks))
}

func TestDueToday(t *testing.T) {
	morning := time.Date(today.Year(), today.Month(), today.Day(), 8, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	tasks := []models.Task{
		{ID: "1", DueDate: &morning},
		{ID: "2", DueDate: &tomorrow},
		{ID: "3"}, // no due date
	}

	due := DueToday(tasks, today)
	require.Len(t, due, 1)
	require.Equal(t, "1", due[0].ID)
}

func TestUpcoming(t *testing.T) {
	d1 := today.AddDate(0, 0, 1)
	d2 := today.AddDate(0, 0, 2)
	d3 := today.AddDate(0, 0, 3)

	tasks := []models.Task{
		{ID: "later", DueDate: &d3},
		{ID: "soon", DueDate: &d1},
		{ID: "done", Status: models.TaskStatusDone, DueDate: &d1},
		{ID: "undated"},
		{ID: "mid", DueDate: &d2},
	}

	up := Upcoming(tasks, 2)
	require.Len(t, up, 2)
	require.Equal(t, "soon", up[0].ID)
	require.Equal(t, "mid", up[1].ID)
}

func TestCompletedPerDay(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusDone, UpdatedAt: today},
		{Status: models.TaskStatusDone, UpdatedAt: today.Add(-2 * time.Hour)},
		{Status: models.TaskStatusDone, UpdatedAt: today.AddDate(0, 0, -3)},
		{Status: models.TaskStatusTodo, UpdatedAt: today},
	}

	counts := CompletedPerDay(tasks, 7, today)
	require.Len(t, counts, 7)
	require.Equal(t, 2, counts[6].Count)
	require.Equal(t, 1, counts[3].Count)
	require.Equal(t, 0, counts[0].Count)
}

func TestTopActiveGoals(t *testing.T) {
	goals := []models.Goal{
		{ID: "half", Progress: 50},
		{ID: "finished", Progress: 100},
		{ID: "almost", Progress: 90},
		{ID: "fresh", Progress: 0},
	}

	top := TopActiveGoals(goals, 2)
	require.Len(t, top, 2)
	require.Equal(t, "almost", top[0].ID)
	require.Equal(t, "half", top[1].ID)
}
