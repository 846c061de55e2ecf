package tracker

import (
	"errors"
	"sync"
	"time"

	"github.com/tasktracker/tasktracker-api/internal/models"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRunning = errors.New("a timer is already running")
	ErrNotRunning     = errors.New("no timer is running")
	ErrNotPaused      = errors.New("timer is not paused")
)

// Recorder stores finished runs.
type Recorder interface {
	AddTimeEntry(models.TimeEntry) (models.TimeEntry, error)
}

// Status describes an identity's stopwatch.
type Status struct {
	Running     bool   `json:"running"`
	Elapsed     int    `json:"elapsed"`
	Description string `json:"description"`
	TaskID      string `json:"taskId,omitempty"`
}

type stopwatch struct {
	description string
	taskID      string
	seconds     int
	running     bool
	cancel      chan struct{}
}

// Tracker runs at most one stopwatch per identity. Each running stopwatch
// accumulates whole seconds on a ticker; the ticker is cancelled on pause and
// stop so no schedule outlives its run.
type Tracker struct {
	recorder Recorder
	logger   *zap.Logger
	tick     time.Duration

	mu      sync.Mutex
	watches map[string]*stopwatch
}

func New(recorder Recorder, logger *zap.Logger) *Tracker {
	return &Tracker{
		recorder: recorder,
		logger:   logger,
		tick:     time.Second,
		watches:  make(map[string]*stopwatch),
	}
}

// Start begins a stopwatch for the identity.
func (t *Tracker) Start(identityID, description, taskID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.watches[identityID]; exists {
		return ErrAlreadyRunning
	}

	w := &stopwatch{
		description: description,
		taskID:      taskID,
		running:     true,
		cancel:      make(chan struct{}),
	}
	t.watches[identityID] = w
	go t.run(w, w.cancel)
	return nil
}

func (t *Tracker) run(w *stopwatch, cancel chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.mu.Lock()
			// A tick buffered while the stopwatch was being paused or
			// replaced must not count.
			if w.running && w.cancel == cancel {
				w.seconds++
			}
			t.mu.Unlock()
		case <-cancel:
			return
		}
	}
}

// Pause stops the tick but keeps the accumulated seconds.
func (t *Tracker) Pause(identityID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, exists := t.watches[identityID]
	if !exists {
		return ErrNotRunning
	}
	if !w.running {
		return nil
	}
	close(w.cancel)
	w.running = false
	return nil
}

// Resume restarts a paused stopwatch.
func (t *Tracker) Resume(identityID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, exists := t.watches[identityID]
	if !exists {
		return ErrNotRunning
	}
	if w.running {
		return ErrNotPaused
	}
	w.cancel = make(chan struct{})
	w.running = true
	go t.run(w, w.cancel)
	return nil
}

// Stop cancels the stopwatch and records a time entry from the elapsed
// seconds. Zero-length runs are discarded, reported through recorded.
func (t *Tracker) Stop(identityID string) (entry models.TimeEntry, recorded bool, err error) {
	t.mu.Lock()

	w, exists := t.watches[identityID]
	if !exists {
		t.mu.Unlock()
		return models.TimeEntry{}, false, ErrNotRunning
	}
	if w.running {
		close(w.cancel)
	}
	delete(t.watches, identityID)
	seconds := w.seconds
	description := w.description
	taskID := w.taskID
	t.mu.Unlock()

	if seconds == 0 {
		return models.TimeEntry{}, false, nil
	}

	now := time.Now().UTC()
	created, err := t.recorder.AddTimeEntry(models.TimeEntry{
		Description: description,
		TaskID:      taskID,
		StartTime:   now.Add(-time.Duration(seconds) * time.Second),
		EndTime:     now,
		Duration:    seconds,
	})
	if err != nil {
		t.logger.Error("failed to record time entry", zap.String("identity", identityID), zap.Error(err))
		return models.TimeEntry{}, false, err
	}
	return created, true, nil
}

// Status reports the identity's stopwatch, existing or not.
func (t *Tracker) Status(identityID string) (Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, exists := t.watches[identityID]
	if !exists {
		return Status{}, false
	}
	return Status{
		Running:     w.running,
		Elapsed:     w.seconds,
		Description: w.description,
		TaskID:      w.taskID,
	}, true
}
