package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasktracker/tasktracker-api/internal/identity"
	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/storage"
	"go.uber.org/zap"
)

// staticSource pins the store to one identity for tests that don't exercise
// identity switching.
type staticSource struct {
	idt *models.Identity
}

func (s *staticSource) Current() *models.Identity        { return s.idt }
func (s *staticSource) Subscribe(func(*models.Identity)) {}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	adapter, err := storage.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	src := &staticSource{idt: &models.Identity{ID: "alice@example.com", Email: "alice@example.com"}}
	return New(adapter, src, zap.NewNop())
}

func TestStore_AddTaskDefaults(t *testing.T) {
	s := newTestStore(t)

	task, err := s.AddTask(models.Task{Title: "x"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.NotEmpty(t, task.ID)
	require.False(t, task.CreatedAt.IsZero())
	require.NotNil(t, task.Tags)
	require.NotNil(t, task.Subtasks)

	other, err := s.AddTask(models.Task{Title: "y"})
	require.NoError(t, err)
	require.NotEqual(t, task.ID, other.ID)
}

func TestStore_UpdateTaskMergesFields(t *testing.T) {
	s := newTestStore(t)

	task, err := s.AddTask(models.Task{Title: "x", Description: "keep me"})
	require.NoError(t, err)

	status := models.TaskStatusDone
	updated, found, err := s.UpdateTask(task.ID, models.TaskPatch{Status: &status})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, models.TaskStatusDone, updated.Status)
	require.Equal(t, "keep me", updated.Description)
	require.True(t, updated.UpdatedAt.After(task.UpdatedAt) || updated.UpdatedAt.Equal(task.UpdatedAt))
}

func TestStore_UpdateUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t)

	title := "nope"
	_, found, err := s.UpdateTask("does-not-exist", models.TaskPatch{Title: &title})
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_DeleteUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t)

	task, err := s.AddTask(models.Task{Title: "x"})
	require.NoError(t, err)

	found, err := s.DeleteTask("does-not-exist")
	require.NoError(t, err)
	require.False(t, found)
	require.Len(t, s.Tasks(), 1)

	found, err = s.DeleteTask(task.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Empty(t, s.Tasks())
}

func TestStore_ToggleHabitCompletionIsInvolution(t *testing.T) {
	s := newTestStore(t)

	habit, err := s.AddHabit(models.Habit{Name: "stretch"})
	require.NoError(t, err)

	day := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)

	toggled, found, err := s.ToggleHabitCompletion(habit.ID, day)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"2026-08-30"}, toggled.Completions)

	// The same day toggles back off regardless of the time component.
	toggled, _, err = s.ToggleHabitCompletion(habit.ID, day.Add(3*time.Hour))
	require.NoError(t, err)
	require.Empty(t, toggled.Completions)
}

func TestStore_ToggleMilestoneRecomputesProgress(t *testing.T) {
	s := newTestStore(t)

	goal, err := s.AddGoal(models.Goal{Title: "ship"})
	require.NoError(t, err)
	require.Equal(t, 0, goal.Progress)

	m1, found, err := s.AddMilestone(goal.ID, "draft")
	require.NoError(t, err)
	require.True(t, found)
	_, _, err = s.AddMilestone(goal.ID, "review")
	require.NoError(t, err)
	_, _, err = s.AddMilestone(goal.ID, "publish")
	require.NoError(t, err)

	// Adding milestones never touches the stored progress.
	goals := s.Goals()
	require.Equal(t, 0, goals[0].Progress)

	updated, found, err := s.ToggleMilestone(goal.ID, m1.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 33, updated.Progress) // round(100 * 1/3)

	updated, _, err = s.ToggleMilestone(goal.ID, m1.ID)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Progress)
}

func TestStore_ToggleMilestoneUnknownIDs(t *testing.T) {
	s := newTestStore(t)

	goal, err := s.AddGoal(models.Goal{Title: "ship"})
	require.NoError(t, err)

	_, found, err := s.ToggleMilestone(goal.ID, "missing")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = s.ToggleMilestone("missing", "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_IdentitySwitchRoundTrip(t *testing.T) {
	adapter, err := storage.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	provider, err := identity.NewProvider(adapter, zap.NewNop())
	require.NoError(t, err)
	s := New(adapter, provider, zap.NewNop())

	_, err = provider.Signup("a@example.com", "secret", "A")
	require.NoError(t, err)
	taskA, err := s.AddTask(models.Task{Title: "belongs to A"})
	require.NoError(t, err)

	_, err = provider.Signup("b@example.com", "secret", "B")
	require.NoError(t, err)
	require.Empty(t, s.Tasks(), "switching identities must fully replace collections")
	_, err = s.AddTask(models.Task{Title: "belongs to B"})
	require.NoError(t, err)

	_, err = provider.Activate("a@example.com")
	require.NoError(t, err)
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	require.Equal(t, taskA.ID, tasks[0].ID)
	require.Equal(t, "belongs to A", tasks[0].Title)
}

func TestStore_LogoutClearsCollections(t *testing.T) {
	adapter, err := storage.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	provider, err := identity.NewProvider(adapter, zap.NewNop())
	require.NoError(t, err)
	s := New(adapter, provider, zap.NewNop())

	_, err = provider.Signup("a@example.com", "secret", "A")
	require.NoError(t, err)
	_, err = s.AddHabit(models.Habit{Name: "read"})
	require.NoError(t, err)

	require.NoError(t, provider.Logout())
	require.Empty(t, s.Habits())
}

func TestStore_CorruptDocumentResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	adapter, err := storage.NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)

	idt := &models.Identity{ID: "a@example.com"}
	require.NoError(t, adapter.Save(storage.DocumentKey(idt.ID), map[string]string{"tasks": "not a list"}))

	s := New(adapter, &staticSource{idt: idt}, zap.NewNop())
	require.Empty(t, s.Tasks())
	require.Empty(t, s.Habits())
	require.Empty(t, s.Goals())
	require.Empty(t, s.TimeEntries())
}

func TestStore_PartiallyDecodableDocumentResetsToEmpty(t *testing.T) {
	adapter, err := storage.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	// Decoding stops at the bad habits field, after the task list has already
	// been filled in. None of it may survive.
	idt := &models.Identity{ID: "a@example.com"}
	require.NoError(t, adapter.Save(storage.DocumentKey(idt.ID), map[string]any{
		"tasks":  []map[string]string{{"id": "1", "title": "leaked"}},
		"habits": 17,
	}))

	s := New(adapter, &staticSource{idt: idt}, zap.NewNop())
	require.Empty(t, s.Tasks())
	require.Empty(t, s.Habits())
}
