package storage

import "github.com/tasktracker/tasktracker-api/internal/models"

// Well-known storage keys.
const (
	// KeyDirectory holds the identity directory (email -> identity).
	KeyDirectory = "users"
	// KeyCurrentIdentity holds the persisted current-identity pointer.
	KeyCurrentIdentity = "current_user"
)

// DocumentKey returns the storage key for an identity's data document.
func DocumentKey(identityID string) string {
	return "data_" + identityID
}

// Document is the serialized collection set for one identity. The whole
// document is rewritten on every mutation; entities have no persistence of
// their own.
type Document struct {
	Tasks       []models.Task      `json:"tasks"`
	Habits      []models.Habit     `json:"habits"`
	Goals       []models.Goal      `json:"goals"`
	TimeEntries []models.TimeEntry `json:"timeEntries"`
}

// NewDocument returns an empty document with all collections initialized.
func NewDocument() *Document {
	return &Document{
		Tasks:       []models.Task{},
		Habits:      []models.Habit{},
		Goals:       []models.Goal{},
		TimeEntries: []models.TimeEntry{},
	}
}

// Normalize re-initializes collections that came back nil from an older or
// partial document, so read sites never see a nil slice.
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []models.Task{}
	}
	if d.Habits == nil {
		d.Habits = []models.Habit{}
	}
	if d.Goals == nil {
		d.Goals = []models.Goal{}
	}
	if d.TimeEntries == nil {
		d.TimeEntries = []models.TimeEntry{}
	}
}

// Store persists named JSON blobs.
//
// Load is fail-soft: it reports false both when the key is absent and when
// the stored bytes do not decode, so corrupt state reads as empty instead of
// surfacing an error to callers.
type Store interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
	Delete(key string) error
}
