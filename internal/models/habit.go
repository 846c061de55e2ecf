package models

import "time"

// Habit tracks daily completions. Completions holds calendar days in
// YYYY-MM-DD form, each day appearing at most once.
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Completions []string  `json:"completions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HabitPatch is a partial habit update. Nil fields are left untouched.
type HabitPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Apply merges the patch into the habit.
func (h *Habit) Apply(p HabitPatch) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
}
