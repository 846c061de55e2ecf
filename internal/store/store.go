package store

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/storage"
	"go.uber.org/zap"
)

// IdentitySource notifies the store of identity changes.
type IdentitySource interface {
	Current() *models.Identity
	Subscribe(func(*models.Identity))
}

// Store holds the four collections scoped to the current identity. It reloads
// its document whenever the identity changes and writes the whole document
// back on every mutation. The mutex orders loads against saves: a save always
// reflects the most recently completed load for the active identity.
type Store struct {
	adapter storage.Store
	logger  *zap.Logger

	mu       sync.Mutex
	identity *models.Identity
	doc      *storage.Document
	lastID   int64
}

// New builds a store bound to the identity source and loads the current
// identity's document.
func New(adapter storage.Store, ids IdentitySource, logger *zap.Logger) *Store {
	s := &Store{
		adapter: adapter,
		logger:  logger,
		doc:     storage.NewDocument(),
	}
	ids.Subscribe(s.SetIdentity)
	s.SetIdentity(ids.Current())
	return s
}

// SetIdentity discards the in-memory collections and reloads from storage
// under the new identity's key. A nil identity leaves the store empty.
func (s *Store) SetIdentity(idt *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = idt
	s.doc = storage.NewDocument()
	if idt == nil {
		return
	}

	doc := storage.NewDocument()
	found, err := s.adapter.Load(storage.DocumentKey(idt.ID), doc)
	if err != nil {
		s.logger.Error("failed to load data document", zap.String("identity", idt.ID), zap.Error(err))
		return
	}
	// A failed decode can leave doc partially filled; only a clean load
	// replaces the empty document.
	if !found {
		return
	}
	doc.Normalize()
	s.doc = doc
}

func (s *Store) persistLocked() error {
	if s.identity == nil {
		return nil
	}
	return s.adapter.Save(storage.DocumentKey(s.identity.ID), s.doc)
}

// nextIDLocked returns a millisecond-clock id, bumped past the previous one
// when two mutations land in the same millisecond.
func (s *Store) nextIDLocked() string {
	now := time.Now().UnixMilli()
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return strconv.FormatInt(now, 10)
}

// Tasks returns a snapshot of the task collection.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.doc.Tasks))
	copy(out, s.doc.Tasks)
	return out
}

// AddTask appends a task, filling in id, timestamps, and defaults.
func (s *Store) AddTask(task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task.ID = s.nextIDLocked()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}

	s.doc.Tasks = append(s.doc.Tasks, task)
	if err := s.persistLocked(); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask merges the patch into the matching task. Unknown ids are a
// no-op, reported through found.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) (task models.Task, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Tasks {
		if s.doc.Tasks[i].ID != id {
			continue
		}
		s.doc.Tasks[i].Apply(patch)
		s.doc.Tasks[i].UpdatedAt = time.Now().UTC()
		if err := s.persistLocked(); err != nil {
			return models.Task{}, true, err
		}
		return s.doc.Tasks[i], true, nil
	}
	return models.Task{}, false, nil
}

// DeleteTask removes the matching task. Unknown ids are a no-op.
func (s *Store) DeleteTask(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Tasks {
		if s.doc.Tasks[i].ID == id {
			s.doc.Tasks = append(s.doc.Tasks[:i], s.doc.Tasks[i+1:]...)
			return true, s.persistLocked()
		}
	}
	return false, nil
}

// Habits returns a snapshot of the habit collection.
func (s *Store) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Habit, len(s.doc.Habits))
	copy(out, s.doc.Habits)
	return out
}

// AddHabit appends a habit with an empty completion set.
func (s *Store) AddHabit(habit models.Habit) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit.ID = s.nextIDLocked()
	habit.CreatedAt = time.Now().UTC()
	if habit.Completions == nil {
		habit.Completions = []string{}
	}

	s.doc.Habits = append(s.doc.Habits, habit)
	if err := s.persistLocked(); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// UpdateHabit merges the patch into the matching habit.
func (s *Store) UpdateHabit(id string, patch models.HabitPatch) (habit models.Habit, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Habits {
		if s.doc.Habits[i].ID != id {
			continue
		}
		s.doc.Habits[i].Apply(patch)
		if err := s.persistLocked(); err != nil {
			return models.Habit{}, true, err
		}
		return s.doc.Habits[i], true, nil
	}
	return models.Habit{}, false, nil
}

// DeleteHabit removes the matching habit.
func (s *Store) DeleteHabit(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Habits {
		if s.doc.Habits[i].ID == id {
			s.doc.Habits = append(s.doc.Habits[:i], s.doc.Habits[i+1:]...)
			return true, s.persistLocked()
		}
	}
	return false, nil
}

// ToggleHabitCompletion flips membership of the day in the habit's completion
// set: present days are removed, absent days added. The day is normalized to
// its calendar date.
func (s *Store) ToggleHabitCompletion(habitID string, day time.Time) (habit models.Habit, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dateStr := day.Format("2006-01-02")
	for i := range s.doc.Habits {
		h := &s.doc.Habits[i]
		if h.ID != habitID {
			continue
		}

		removed := false
		for j, d := range h.Completions {
			if d == dateStr {
				h.Completions = append(h.Completions[:j], h.Completions[j+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			h.Completions = append(h.Completions, dateStr)
		}

		if err := s.persistLocked(); err != nil {
			return models.Habit{}, true, err
		}
		return *h, true, nil
	}
	return models.Habit{}, false, nil
}

// Goals returns a snapshot of the goal collection.
func (s *Store) Goals() []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Goal, len(s.doc.Goals))
	copy(out, s.doc.Goals)
	return out
}

// AddGoal appends a goal with an empty milestone list.
func (s *Store) AddGoal(goal models.Goal) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal.ID = s.nextIDLocked()
	goal.CreatedAt = time.Now().UTC()
	if goal.Milestones == nil {
		goal.Milestones = []models.Milestone{}
	}

	s.doc.Goals = append(s.doc.Goals, goal)
	if err := s.persistLocked(); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// UpdateGoal merges the patch into the matching goal.
func (s *Store) UpdateGoal(id string, patch models.GoalPatch) (goal models.Goal, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Goals {
		if s.doc.Goals[i].ID != id {
			continue
		}
		s.doc.Goals[i].Apply(patch)
		if err := s.persistLocked(); err != nil {
			return models.Goal{}, true, err
		}
		return s.doc.Goals[i], true, nil
	}
	return models.Goal{}, false, nil
}

// DeleteGoal removes the matching goal and its milestones with it.
func (s *Store) DeleteGoal(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Goals {
		if s.doc.Goals[i].ID == id {
			s.doc.Goals = append(s.doc.Goals[:i], s.doc.Goals[i+1:]...)
			return true, s.persistLocked()
		}
	}
	return false, nil
}

// AddMilestone appends a milestone to the goal. Progress is not recomputed
// here; toggling is the only recompute path.
func (s *Store) AddMilestone(goalID, title string) (m models.Milestone, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Goals {
		g := &s.doc.Goals[i]
		if g.ID != goalID {
			continue
		}

		milestone := models.Milestone{
			ID:    s.nextIDLocked(),
			Title: title,
		}
		g.Milestones = append(g.Milestones, milestone)

		if err := s.persistLocked(); err != nil {
			return models.Milestone{}, true, err
		}
		return milestone, true, nil
	}
	return models.Milestone{}, false, nil
}

// ToggleMilestone flips the milestone's completed flag and recomputes the
// goal's progress over its full milestone list.
func (s *Store) ToggleMilestone(goalID, milestoneID string) (goal models.Goal, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Goals {
		g := &s.doc.Goals[i]
		if g.ID != goalID {
			continue
		}

		toggled := false
		for j := range g.Milestones {
			if g.Milestones[j].ID == milestoneID {
				g.Milestones[j].Completed = !g.Milestones[j].Completed
				toggled = true
				break
			}
		}
		if !toggled {
			return models.Goal{}, false, nil
		}

		if total := len(g.Milestones); total > 0 {
			completed := 0
			for _, m := range g.Milestones {
				if m.Completed {
					completed++
				}
			}
			g.Progress = int(math.Round(100 * float64(completed) / float64(total)))
		}

		if err := s.persistLocked(); err != nil {
			return models.Goal{}, true, err
		}
		return *g, true, nil
	}
	return models.Goal{}, false, nil
}

// TimeEntries returns a snapshot of the time entry collection.
func (s *Store) TimeEntries() []models.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TimeEntry, len(s.doc.TimeEntries))
	copy(out, s.doc.TimeEntries)
	return out
}

// AddTimeEntry appends a time entry. The supplied duration is trusted; it is
// not re-derived from the start/end pair.
func (s *Store) AddTimeEntry(entry models.TimeEntry) (models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextIDLocked()
	s.doc.TimeEntries = append(s.doc.TimeEntries, entry)
	if err := s.persistLocked(); err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

// UpdateTimeEntry merges the patch into the matching entry.
func (s *Store) UpdateTimeEntry(id string, patch models.TimeEntryPatch) (entry models.TimeEntry, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.TimeEntries {
		if s.doc.TimeEntries[i].ID != id {
			continue
		}
		s.doc.TimeEntries[i].Apply(patch)
		if err := s.persistLocked(); err != nil {
			return models.TimeEntry{}, true, err
		}
		return s.doc.TimeEntries[i], true, nil
	}
	return models.TimeEntry{}, false, nil
}

// DeleteTimeEntry removes the matching entry.
func (s *Store) DeleteTimeEntry(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.TimeEntries {
		if s.doc.TimeEntries[i].ID == id {
			s.doc.TimeEntries = append(s.doc.TimeEntries[:i], s.doc.TimeEntries[i+1:]...)
			return true, s.persistLocked()
		}
	}
	return false, nil
}
