package models

import "time"

// TimeEntry records a tracked span of work. Duration is supplied by the
// caller in seconds and is not re-derived from the start/end pair.
type TimeEntry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	TaskID      string    `json:"taskId,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int       `json:"duration"`
}

// TimeEntryPatch is a partial time entry update. Nil fields are left untouched.
type TimeEntryPatch struct {
	Description *string    `json:"description"`
	TaskID      *string    `json:"taskId"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Duration    *int       `json:"duration"`
}

// Apply merges the patch into the entry.
func (e *TimeEntry) Apply(p TimeEntryPatch) {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.TaskID != nil {
		e.TaskID = *p.TaskID
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
}
