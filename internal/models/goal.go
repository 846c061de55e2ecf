package models

import "time"

// Milestone is a sub-checkpoint of a goal. It has no lifecycle of its own.
type Milestone struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Goal carries a stored progress percentage. Progress is recomputed only when
// a milestone is toggled; adding a milestone leaves it untouched.
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	TargetDate  *time.Time  `json:"targetDate"`
	Milestones  []Milestone `json:"milestones"`
	Progress    int         `json:"progress"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// GoalPatch is a partial goal update. Nil fields are left untouched.
type GoalPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
	Progress    *int       `json:"progress"`
}

// Apply merges the patch into the goal.
func (g *Goal) Apply(p GoalPatch) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetDate != nil {
		g.TargetDate = p.TargetDate
	}
	if p.Progress != nil {
		g.Progress = *p.Progress
	}
}
