// Package metrics holds the derived computations over the loaded collections.
// Everything here is a pure function of its inputs; nothing is cached or
// stored. The one exception to derived-on-read in the system is goal
// progress, which lives on the goal record and is recomputed by the store.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tasktracker/tasktracker-api/internal/models"
)

// DayKey normalizes a time to its calendar day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Streak counts consecutive completed days walking backward from today.
// A still-pending today does not break the chain: when today is absent the
// walk starts at yesterday, with today simply excluded from the count.
func Streak(completions []string, today time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(completions))
	for _, d := range completions {
		set[d] = struct{}{}
	}

	cursor := today
	if _, ok := set[DayKey(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := set[DayKey(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// CompletedOn reports whether the habit was completed on the given day.
func CompletedOn(completions []string, day time.Time) bool {
	key := DayKey(day)
	for _, d := range completions {
		if d == key {
			return true
		}
	}
	return false
}

// Consistency is the percentage of the last `days` calendar days (ending
// today) with a completion.
func Consistency(completions []string, days int, today time.Time) int {
	if days <= 0 {
		return 0
	}

	set := make(map[string]struct{}, len(completions))
	for _, d := range completions {
		set[d] = struct{}{}
	}

	completed := 0
	for i := 0; i < days; i++ {
		if _, ok := set[DayKey(today.AddDate(0, 0, -i))]; ok {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(days)))
}

// Window selects which time entries a total covers.
type Window int

const (
	WindowAll Window = iota
	WindowToday
	WindowWeek
)

// StartOfWeek returns midnight of the Sunday starting t's calendar week.
func StartOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

func inWindow(start time.Time, w Window, now time.Time) bool {
	switch w {
	case WindowToday:
		return DayKey(start) == DayKey(now)
	case WindowWeek:
		weekStart := StartOfWeek(now)
		return !start.Before(weekStart) && start.Before(weekStart.AddDate(0, 0, 7))
	default:
		return true
	}
}

// TotalDuration sums entry durations (seconds) over entries whose start time
// falls within the window.
func TotalDuration(entries []models.TimeEntry, w Window, now time.Time) int {
	total := 0
	for _, e := range entries {
		if inWindow(e.StartTime, w, now) {
			total += e.Duration
		}
	}
	return total
}

// FormatHoursMinutes renders seconds as "Xh Ym".
func FormatHoursMinutes(seconds int) string {
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// DayBucket is one day of a per-day series.
type DayBucket struct {
	Date    string `json:"date"`
	Seconds int    `json:"seconds"`
}

// DailyDurations buckets entry durations by start day over the last `days`
// days ending today, oldest first.
func DailyDurations(entries []models.TimeEntry, days int, today time.Time) []DayBucket {
	byDay := make(map[string]int)
	for _, e := range entries {
		byDay[DayKey(e.StartTime)] += e.Duration
	}

	out := make([]DayBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := DayKey(today.AddDate(0, 0, -i))
		out = append(out, DayBucket{Date: key, Seconds: byDay[key]})
	}
	return out
}

// TaskStats are task counts grouped by status.
type TaskStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

func TasksByStatus(tasks []models.Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusTodo:
			stats.Todo++
		case models.TaskStatusInProgress:
			stats.InProgress++
		case models.TaskStatusDone:
			stats.Done++
		}
	}
	return stats
}

// PriorityCounts are task counts grouped by priority.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func TasksByPriority(tasks []models.Task) PriorityCounts {
	var counts PriorityCounts
	for _, t := range tasks {
		switch t.Priority {
		case models.TaskPriorityHigh:
			counts.High++
		case models.TaskPriorityMedium:
			counts.Medium++
		case models.TaskPriorityLow:
			counts.Low++
		}
	}
	return counts
}

// ActiveTasks counts tasks that are not done.
func ActiveTasks(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status != models.TaskStatusDone {
			n++
		}
	}
	return n
}

// DueToday returns tasks whose due date falls on today's calendar day.
func DueToday(tasks []models.Task, today time.Time) []models.Task {
	key := DayKey(today)
	out := []models.Task{}
	for _, t := range tasks {
		if t.DueDate != nil && DayKey(*t.DueDate) == key {
			out = append(out, t)
		}
	}
	return out
}

// Upcoming returns non-done tasks with a due date, soonest first, capped at
// limit.
func Upcoming(tasks []models.Task, limit int) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if t.Status != models.TaskStatusDone && t.DueDate != nil {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DayCount is one day of a completion series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CompletedPerDay counts done tasks by their last-updated day over the last
// `days` days ending today, oldest first.
func CompletedPerDay(tasks []models.Task, days int, today time.Time) []DayCount {
	byDay := make(map[string]int)
	for _, t := range tasks {
		if t.Status == models.TaskStatusDone {
			byDay[DayKey(t.UpdatedAt)]++
		}
	}

	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := DayKey(today.AddDate(0, 0, -i))
		out = append(out, DayCount{Date: key, Count: byDay[key]})
	}
	return out
}

// TopActiveGoals returns goals still short of 100%, highest progress first,
// capped at limit.
func TopActiveGoals(goals []models.Goal, limit int) []models.Goal {
	out := []models.Goal{}
	for _, g := range goals {
		if g.Progress < 100 {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Progress > out[j].Progress
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
