package lifecycle

import (
	"errors"
	"testing"
	"time"

	"pupkeep/internal/logging"
	"pupkeep/internal/models"
	"pupkeep/internal/storage"
)

var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)

func setupTestEngine(t *testing.T) (*Engine, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	engine := NewWithClock(store, logging.Nop(), func() time.Time { return testNow })
	return engine, store
}

func seedOccurrence(t *testing.T, store *storage.MemoryStore, kind models.TaskKind, status models.TaskStatus) models.TaskOccurrence {
	t.Helper()
	occurrence := models.TaskOccurrence{
		ID:            "occ-" + string(kind) + "-" + string(status),
		OwnerID:       "owner-1",
		Kind:          kind,
		ScheduledTime: time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local),
		Status:        status,
	}
	saved, err := store.SaveOccurrence(occurrence)
	if err != nil {
		t.Fatalf("failed to seed occurrence: %v", err)
	}
	return saved
}

func TestStart_FromPending(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindMeal, models.StatusPending)

	task, err := engine.Start(seeded.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if task.Status != models.StatusInProgress {
		t.Errorf("expected status IN_PROGRESS, got %s", task.Status)
	}
	if task.StartTime == nil || !task.StartTime.Equal(testNow) {
		t.Errorf("expected start time %v, got %v", testNow, task.StartTime)
	}
	if task.CountdownStartTime == nil || !task.CountdownStartTime.Equal(testNow) {
		t.Errorf("expected countdown start time %v, got %v", testNow, task.CountdownStartTime)
	}
}

func TestStart_RejectsNonPending(t *testing.T) {
	engine, store := setupTestEngine(t)

	for _, status := range []models.TaskStatus{
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusSkipped,
		models.StatusMissed,
		models.StatusRescued,
	} {
		seeded := seedOccurrence(t, store, models.TaskKindMeal, status)

		_, err := engine.Start(seeded.ID)
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("Start from %s: expected InvalidTransitionError, got %v", status, err)
		}
		if invalid.Status != status || invalid.Op != "start" {
			t.Errorf("error should carry op and status, got %+v", invalid)
		}

		// The occurrence must be left unmodified.
		after, err := store.GetOccurrence(seeded.ID)
		if err != nil {
			t.Fatalf("failed to reload occurrence: %v", err)
		}
		if after.Status != status || after.Version != seeded.Version {
			t.Errorf("occurrence mutated by rejected start: %+v", after)
		}
	}
}

func TestStart_NotFound(t *testing.T) {
	engine, _ := setupTestEngine(t)

	_, err := engine.Start("missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestComplete_FromPendingAndInProgress(t *testing.T) {
	engine, store := setupTestEngine(t)

	for _, status := range []models.TaskStatus{models.StatusPending, models.StatusInProgress} {
		seeded := seedOccurrence(t, store, models.TaskKindMeal, status)

		task, err := engine.Complete(seeded.ID, nil)
		if err != nil {
			t.Fatalf("Complete from %s failed: %v", status, err)
		}
		if task.Status != models.StatusCompleted {
			t.Errorf("expected status COMPLETED, got %s", task.Status)
		}
		if task.EndTime == nil || !task.EndTime.Equal(testNow) {
			t.Errorf("expected end time %v, got %v", testNow, task.EndTime)
		}
	}
}

func TestComplete_RejectsTerminal(t *testing.T) {
	engine, store := setupTestEngine(t)

	for _, status := range []models.TaskStatus{
		models.StatusCompleted,
		models.StatusSkipped,
		models.StatusMissed,
		models.StatusRescued,
	} {
		seeded := seedOccurrence(t, store, models.TaskKindMeal, status)

		_, err := engine.Complete(seeded.ID, nil)
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("Complete from %s: expected InvalidTransitionError, got %v", status, err)
		}
	}
}

func TestComplete_WalkWithDetailsCreatesRecord(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	started, err := engine.Start(seeded.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err = engine.Complete(started.ID, &WalkDetails{Pee: true, Poo: false, Mood: models.MoodHappy})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	record, err := store.GetWalkRecord(seeded.ID)
	if err != nil {
		t.Fatalf("expected walk record, got error: %v", err)
	}
	if !record.Pee || record.Poo {
		t.Errorf("record flags wrong: pee=%t poo=%t", record.Pee, record.Poo)
	}
	if record.Mood != models.MoodHappy {
		t.Errorf("expected mood HAPPY, got %s", record.Mood)
	}
	if !record.StartTime.Equal(testNow) {
		t.Errorf("record start should be the occurrence start time, got %v", record.StartTime)
	}
	if !record.EndTime.Equal(testNow) {
		t.Errorf("record end should be completion time, got %v", record.EndTime)
	}
}

func TestComplete_RecordWriteFailureKeepsCompletion(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	// A record already exists for the occurrence, so the side write after
	// completion must fail.
	if err := store.SaveWalkRecord(models.WalkRecord{
		OccurrenceID: seeded.ID,
		StartTime:    testNow.Add(-time.Hour),
		EndTime:      testNow.Add(-30 * time.Minute),
	}); err != nil {
		t.Fatalf("failed to seed walk record: %v", err)
	}

	_, err := engine.Complete(seeded.ID, &WalkDetails{Pee: true, Mood: models.MoodTired})
	if !errors.Is(err, storage.ErrExists) {
		t.Fatalf("expected error wrapping ErrExists, got %v", err)
	}

	// The completion stands; only the record write is reported as failed.
	after, err := store.GetOccurrence(seeded.ID)
	if err != nil {
		t.Fatalf("failed to reload occurrence: %v", err)
	}
	if after.Status != models.StatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", after.Status)
	}
	if after.EndTime == nil || !after.EndTime.Equal(testNow) {
		t.Errorf("expected end time %v, got %v", testNow, after.EndTime)
	}

	// The pre-existing record survives untouched.
	record, err := store.GetWalkRecord(seeded.ID)
	if err != nil {
		t.Fatalf("GetWalkRecord failed: %v", err)
	}
	if record.Pee || record.Mood == models.MoodTired {
		t.Errorf("existing record must not be overwritten: %+v", record)
	}
}

func TestComplete_WalkWithoutDetailsSkipsRecord(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	if _, err := engine.Complete(seeded.ID, nil); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if _, err := store.GetWalkRecord(seeded.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no walk record, got %v", err)
	}
}

func TestComplete_NonWalkIgnoresDetails(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindMeal, models.StatusPending)

	task, err := engine.Complete(seeded.ID, &WalkDetails{Pee: true})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if task.Status != models.StatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", task.Status)
	}

	if _, err := store.GetWalkRecord(seeded.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no walk record for a meal, got %v", err)
	}
}

func TestDelay_PendingKeepsStatus(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindDrink, models.StatusPending)

	task, err := engine.Delay(seeded.ID, 30)
	if err != nil {
		t.Fatalf("Delay failed: %v", err)
	}

	want := seeded.ScheduledTime.Add(30 * time.Minute)
	if !task.ScheduledTime.Equal(want) {
		t.Errorf("expected scheduled time %v, got %v", want, task.ScheduledTime)
	}
	if task.Status != models.StatusPending {
		t.Errorf("delaying a pending task must not change status, got %s", task.Status)
	}
}

func TestDelay_InProgressResetsToPending(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	started, err := engine.Start(seeded.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	task, err := engine.Delay(started.ID, 15)
	if err != nil {
		t.Fatalf("Delay failed: %v", err)
	}

	if task.Status != models.StatusPending {
		t.Errorf("expected status reset to PENDING, got %s", task.Status)
	}
	if task.StartTime != nil || task.CountdownStartTime != nil {
		t.Errorf("expected start/countdown cleared, got %v / %v", task.StartTime, task.CountdownStartTime)
	}
	want := seeded.ScheduledTime.Add(15 * time.Minute)
	if !task.ScheduledTime.Equal(want) {
		t.Errorf("expected scheduled time %v, got %v", want, task.ScheduledTime)
	}
}

func TestDelay_RejectsTerminal(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindMeal, models.StatusSkipped)

	_, err := engine.Delay(seeded.ID, 10)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestSkip_FromActiveAndMissed(t *testing.T) {
	engine, store := setupTestEngine(t)

	for _, status := range []models.TaskStatus{
		models.StatusPending,
		models.StatusInProgress,
		models.StatusMissed,
	} {
		seeded := seedOccurrence(t, store, models.TaskKindMeal, status)

		task, err := engine.Skip(seeded.ID)
		if err != nil {
			t.Fatalf("Skip from %s failed: %v", status, err)
		}
		if task.Status != models.StatusSkipped {
			t.Errorf("expected status SKIPPED, got %s", task.Status)
		}
		if task.EndTime == nil {
			t.Error("expected end time to be set")
		}
	}
}

func TestSkip_RejectsResolved(t *testing.T) {
	engine, store := setupTestEngine(t)

	for _, status := range []models.TaskStatus{models.StatusCompleted, models.StatusRescued} {
		seeded := seedOccurrence(t, store, models.TaskKindMeal, status)

		_, err := engine.Skip(seeded.ID)
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("Skip from %s: expected InvalidTransitionError, got %v", status, err)
		}

		after, err := store.GetOccurrence(seeded.ID)
		if err != nil {
			t.Fatalf("failed to reload occurrence: %v", err)
		}
		if after.Version != seeded.Version {
			t.Error("rejected skip must not write to the store")
		}
	}
}

func TestMarkMissedAndRescue(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	missed, err := engine.MarkMissed(seeded.ID)
	if err != nil {
		t.Fatalf("MarkMissed failed: %v", err)
	}
	if missed.Status != models.StatusMissed {
		t.Errorf("expected status MISSED, got %s", missed.Status)
	}

	rescued, err := engine.Rescue(seeded.ID)
	if err != nil {
		t.Fatalf("Rescue failed: %v", err)
	}
	if rescued.Status != models.StatusRescued {
		t.Errorf("expected status RESCUED, got %s", rescued.Status)
	}
	if !rescued.Status.IsResolved() {
		t.Error("rescued must count as resolved")
	}

	// Resolved now, so skip must be rejected.
	if _, err := engine.Skip(seeded.ID); err == nil {
		t.Error("expected skip of rescued task to fail")
	}
}

func TestRescue_RequiresMissed(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	_, err := engine.Rescue(seeded.ID)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestSweepMissed(t *testing.T) {
	engine, store := setupTestEngine(t)

	stale := models.TaskOccurrence{
		ID:            "occ-stale",
		OwnerID:       "owner-1",
		Kind:          models.TaskKindMeal,
		ScheduledTime: testNow.Add(-2 * time.Hour),
		Status:        models.StatusPending,
	}
	fresh := models.TaskOccurrence{
		ID:            "occ-fresh",
		OwnerID:       "owner-1",
		Kind:          models.TaskKindWalk,
		ScheduledTime: testNow.Add(-10 * time.Minute),
		Status:        models.StatusPending,
	}
	for _, o := range []models.TaskOccurrence{stale, fresh} {
		if _, err := store.SaveOccurrence(o); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}

	missed, err := engine.SweepMissed("owner-1", testNow, time.Hour)
	if err != nil {
		t.Fatalf("SweepMissed failed: %v", err)
	}

	if len(missed) != 1 || missed[0].ID != "occ-stale" {
		t.Fatalf("expected only the stale task swept, got %v", missed)
	}

	after, _ := store.GetOccurrence("occ-fresh")
	if after.Status != models.StatusPending {
		t.Errorf("fresh task should stay pending, got %s", after.Status)
	}
}

func TestTasksForDate_WindowAndOrder(t *testing.T) {
	engine, store := setupTestEngine(t)

	times := []time.Time{
		time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local),
		time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local),
		time.Date(2024, 1, 16, 8, 0, 0, 0, time.Local), // next day, excluded
	}
	for i, at := range times {
		occurrence := models.TaskOccurrence{
			ID:            "occ-" + string(rune('a'+i)),
			OwnerID:       "owner-1",
			Kind:          models.TaskKindMeal,
			ScheduledTime: at,
			Status:        models.StatusPending,
		}
		if _, err := store.SaveOccurrence(occurrence); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}

	tasks, err := engine.TasksForDate("owner-1", time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("TasksForDate failed: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks in the window, got %d", len(tasks))
	}
	if !tasks[0].ScheduledTime.Before(tasks[1].ScheduledTime) {
		t.Error("tasks must be ordered by scheduled time ascending")
	}
}

func TestStatusTimestampConsistency(t *testing.T) {
	engine, store := setupTestEngine(t)
	seeded := seedOccurrence(t, store, models.TaskKindWalk, models.StatusPending)

	// PENDING: no start, no end.
	if seeded.StartTime != nil || seeded.EndTime != nil {
		t.Error("pending occurrence must have no timestamps")
	}

	// IN_PROGRESS: start set, no end.
	started, err := engine.Start(seeded.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.StartTime == nil || started.EndTime != nil {
		t.Error("in-progress occurrence must have start and no end")
	}

	// COMPLETED: end set.
	completed, err := engine.Complete(seeded.ID, nil)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.EndTime == nil {
		t.Error("completed occurrence must have an end time")
	}
}

// Full walk-day scenario: materialized walk, start, delay resets, restart,
// complete with outcome.
func TestWalkDayScenario(t *testing.T) {
	engine, store := setupTestEngine(t)

	occurrence := models.TaskOccurrence{
		ID:            "occ-walk",
		OwnerID:       "owner-1",
		TemplateID:    "tmpl-walk",
		Kind:          models.TaskKindWalk,
		ScheduledTime: time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local),
		Status:        models.StatusPending,
	}
	if _, err := store.SaveOccurrence(occurrence); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	started, err := engine.Start("occ-walk")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != models.StatusInProgress || started.StartTime == nil {
		t.Fatalf("unexpected state after start: %+v", started)
	}

	delayed, err := engine.Delay("occ-walk", 15)
	if err != nil {
		t.Fatalf("Delay failed: %v", err)
	}
	wantTime := time.Date(2024, 1, 15, 9, 45, 0, 0, time.Local)
	if !delayed.ScheduledTime.Equal(wantTime) {
		t.Errorf("expected scheduled time %v, got %v", wantTime, delayed.ScheduledTime)
	}
	if delayed.Status != models.StatusPending || delayed.StartTime != nil {
		t.Fatalf("delay of an active task must reset it: %+v", delayed)
	}

	if _, err := engine.Start("occ-walk"); err != nil {
		t.Fatalf("second Start after delay failed: %v", err)
	}

	completed, err := engine.Complete("occ-walk", &WalkDetails{Pee: true, Poo: false, Mood: models.MoodHappy})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != models.StatusCompleted || completed.EndTime == nil {
		t.Fatalf("unexpected state after complete: %+v", completed)
	}

	record, err := store.GetWalkRecord("occ-walk")
	if err != nil {
		t.Fatalf("expected exactly one walk record: %v", err)
	}
	if !record.Pee || record.Poo || record.Mood != models.MoodHappy {
		t.Errorf("record does not match supplied details: %+v", record)
	}

	// And skipping the completed walk must fail without a write.
	if _, err := engine.Skip("occ-walk"); err == nil {
		t.Error("expected skip of completed task to fail")
	}
}
