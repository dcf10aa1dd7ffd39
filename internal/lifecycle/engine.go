package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"pupkeep/internal/models"
	"pupkeep/internal/storage"
)

// WalkDetails is the outcome payload supplied when completing a walk.
type WalkDetails struct {
	Pee      bool
	Poo      bool
	Mood     models.Mood
	Notes    string
	PhotoURL string
}

// Engine owns the occurrence state machine. Every operation is a single
// load-validate-mutate-write sequence against one occurrence; the store's
// version check turns lost-update races into ErrVersionConflict.
type Engine struct {
	store storage.Provider
	log   zerolog.Logger
	now   func() time.Time
}

func New(store storage.Provider, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log, now: time.Now}
}

// NewWithClock injects the time source, for tests.
func NewWithClock(store storage.Provider, log zerolog.Logger, now func() time.Time) *Engine {
	return &Engine{store: store, log: log, now: now}
}

func (e *Engine) load(id string) (models.TaskOccurrence, error) {
	occurrence, err := e.store.GetOccurrence(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.TaskOccurrence{}, &NotFoundError{ID: id}
		}
		return models.TaskOccurrence{}, err
	}
	return occurrence, nil
}

// Start moves a pending task into progress and begins its countdown.
func (e *Engine) Start(id string) (models.TaskOccurrence, error) {
	occurrence, err := e.load(id)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if occurrence.Status != models.StatusPending {
		return models.TaskOccurrence{}, &InvalidTransitionError{Op: "start", Status: occurrence.Status}
	}

	now := e.now()
	occurrence.Status = models.StatusInProgress
	occurrence.StartTime = &now
	// Kept separate from StartTime so a later pause feature can rebase the
	// countdown without losing the original start.
	occurrence.CountdownStartTime = &now

	saved, err := e.store.SaveOccurrence(occurrence)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	e.log.Info().Str("id", id).Msg("task started")
	return saved, nil
}

// Complete finishes an active task. When an outcome payload is supplied and
// the task is a walk, a walk record is written after the occurrence; a failed
// record write is reported but the completion stands.
func (e *Engine) Complete(id string, walk *WalkDetails) (models.TaskOccurrence, error) {
	occurrence, err := e.load(id)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if !occurrence.Status.IsActive() {
		return models.TaskOccurrence{}, &InvalidTransitionError{Op: "complete", Status: occurrence.Status}
	}

	now := e.now()
	occurrence.Status = models.StatusCompleted
	occurrence.EndTime = &now

	saved, err := e.store.SaveOccurrence(occurrence)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if walk != nil && occurrence.Kind == models.TaskKindWalk {
		record := models.WalkRecord{
			OccurrenceID: occurrence.ID,
			StartTime:    now,
			EndTime:      now,
			Pee:          walk.Pee,
			Poo:          walk.Poo,
			Mood:         walk.Mood,
			Notes:        walk.Notes,
			PhotoURL:     walk.PhotoURL,
		}
		if occurrence.StartTime != nil {
			record.StartTime = *occurrence.StartTime
		}
		if err := e.store.SaveWalkRecord(record); err != nil {
			// Best-effort side write: the occurrence stays completed.
			e.log.Error().Err(err).Str("id", id).Msg("walk record write failed after completion")
			return saved, fmt.Errorf("task completed but walk record write failed: %w", err)
		}
		e.log.Debug().Str("id", id).Msg("walk record created")
	}

	e.log.Info().Str("id", id).Msg("task completed")
	return saved, nil
}

// Delay pushes an active task's scheduled time forward. Delaying a task that
// was already in progress restarts it: status drops back to pending and the
// start/countdown timestamps are cleared.
func (e *Engine) Delay(id string, minutes int) (models.TaskOccurrence, error) {
	occurrence, err := e.load(id)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if !occurrence.Status.IsActive() {
		return models.TaskOccurrence{}, &InvalidTransitionError{Op: "delay", Status: occurrence.Status}
	}

	occurrence.ScheduledTime = occurrence.ScheduledTime.Add(time.Duration(minutes) * time.Minute)
	if occurrence.Status == models.StatusInProgress {
		occurrence.Status = models.StatusPending
		occurrence.StartTime = nil
		occurrence.CountdownStartTime = nil
	}

	saved, err := e.store.SaveOccurrence(occurrence)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	e.log.Info().Str("id", id).Int("minutes", minutes).Msg("task delayed")
	return saved, nil
}

// Skip marks a task as deliberately not done. Resolved tasks cannot be
// skipped; a missed task still can be.
func (e *Engine) Skip(id string) (models.TaskOccurrence, error) {
	occurrence, err := e.load(id)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if occurrence.Status.IsResolved() {
		return models.TaskOccurrence{}, &InvalidTransitionError{Op: "skip", Status: occurrence.Status}
	}

	now := e.now()
	occurrence.Status = models.StatusSkipped
	occurrence.EndTime = &now

	saved, err := e.store.SaveOccurrence(occurrence)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	e.log.Info().Str("id", id).Msg("task skipped")
	return saved, nil
}

// MarkMissed is the external trigger point for the time-based sweep. It is
// not reachable through normal client actions.
func (e *Engine) MarkMissed(id string) (models.TaskOccurrence, error) {
	occurrence, err := e.load(id)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if !occurrence.Status.IsActive() {
		return models.TaskOccurrence{}, &InvalidTransitionError{Op: "miss", Status: occurrence.Status}
	}

	now := e.now()
	occurrence.Status = models.StatusMissed
	occurrence.EndTime = &now

	saved, err := e.store.SaveOccurrence(occurrence)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	e.log.Info().Str("id", id).Msg("task marked missed")
	return saved, nil
}

// Rescue is the external recovery trigger for a missed task. It resolves the
// task as a completed-equivalent.
func (e *Engine) Rescue(id string) (models.TaskOccurrence, error) {
	occurrence, err := e.load(id)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	if occurrence.Status != models.StatusMissed {
		return models.TaskOccurrence{}, &InvalidTransitionError{Op: "rescue", Status: occurrence.Status}
	}

	now := e.now()
	occurrence.Status = models.StatusRescued
	occurrence.EndTime = &now

	saved, err := e.store.SaveOccurrence(occurrence)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	e.log.Info().Str("id", id).Msg("task rescued")
	return saved, nil
}

// TasksForDate returns the owner's occurrences within the date's inclusive
// 24-hour window, ordered by scheduled time ascending.
func (e *Engine) TasksForDate(ownerID string, date time.Time) ([]models.TaskOccurrence, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
	return e.store.GetOccurrencesInRange(ownerID, start, end)
}

// TodayTasks is TasksForDate for the current local date.
func (e *Engine) TodayTasks(ownerID string) ([]models.TaskOccurrence, error) {
	return e.TasksForDate(ownerID, e.now())
}

// SweepMissed marks pending tasks as missed once their scheduled time is
// older than the grace window. Returns the occurrences it transitioned.
func (e *Engine) SweepMissed(ownerID string, date time.Time, grace time.Duration) ([]models.TaskOccurrence, error) {
	tasks, err := e.TasksForDate(ownerID, date)
	if err != nil {
		return nil, err
	}

	cutoff := e.now().Add(-grace)
	var missed []models.TaskOccurrence
	for _, task := range tasks {
		if task.Status != models.StatusPending || task.ScheduledTime.After(cutoff) {
			continue
		}
		swept, err := e.MarkMissed(task.ID)
		if err != nil {
			return missed, err
		}
		missed = append(missed, swept)
	}
	return missed, nil
}

// CountByStatus exposes the store's diagnostic counter.
func (e *Engine) CountByStatus(status models.TaskStatus) (int, error) {
	return e.store.CountOccurrencesByStatus(status)
}
