package dto

import (
	"time"

	"github.com/tasktracker/tasktracker-api/internal/metrics"
	"github.com/tasktracker/tasktracker-api/internal/models"
)

// HabitDTO is a habit plus its derived streak state.
type HabitDTO struct {
	models.Habit
	Streak         int  `json:"streak"`
	CompletedToday bool `json:"completedToday"`
}

// ToHabitDTO attaches the streak and today's completion to a habit.
func ToHabitDTO(h models.Habit, today time.Time) HabitDTO {
	return HabitDTO{
		Habit:          h,
		Streak:         metrics.Streak(h.Completions, today),
		CompletedToday: metrics.CompletedOn(h.Completions, today),
	}
}

// ToHabitDTOs converts a habit collection.
func ToHabitDTOs(habits []models.Habit, today time.Time) []HabitDTO {
	out := make([]HabitDTO, len(habits))
	for i, h := range habits {
		out[i] = ToHabitDTO(h, today)
	}
	return out
}
