package scheduler

import (
	"testing"
	"time"

	"pupkeep/internal/logging"
	"pupkeep/internal/models"
	"pupkeep/internal/storage"
)

func setupTestScheduler(t *testing.T) (*Scheduler, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return New(store, logging.Nop()), store
}

func TestDefineSchedule_CreatesTemplates(t *testing.T) {
	sched, store := setupTestScheduler(t)

	created, err := sched.DefineSchedule("owner-1", Times{
		Meal:  []string{"08:00", "18:00"},
		Walk:  []string{"09:30"},
		Drink: []string{"12:00"},
	})
	if err != nil {
		t.Fatalf("DefineSchedule failed: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("expected 4 templates, got %d", len(created))
	}

	kinds := map[models.TaskKind]int{}
	for _, template := range created {
		if template.OwnerID != "owner-1" {
			t.Errorf("template has wrong owner: %s", template.OwnerID)
		}
		if template.ID == "" {
			t.Error("template must get an id")
		}
		kinds[template.Kind]++
	}
	if kinds[models.TaskKindMeal] != 2 || kinds[models.TaskKindWalk] != 1 || kinds[models.TaskKindDrink] != 1 {
		t.Errorf("unexpected kind distribution: %v", kinds)
	}

	stored, err := store.GetTemplates("owner-1")
	if err != nil {
		t.Fatalf("GetTemplates failed: %v", err)
	}
	if len(stored) != 4 {
		t.Errorf("expected 4 stored templates, got %d", len(stored))
	}
}

func TestDefineSchedule_ReplacesWholesale(t *testing.T) {
	sched, store := setupTestScheduler(t)

	if _, err := sched.DefineSchedule("owner-1", Times{Meal: []string{"08:00", "18:00"}}); err != nil {
		t.Fatalf("first DefineSchedule failed: %v", err)
	}

	if _, err := sched.DefineSchedule("owner-1", Times{Walk: []string{"07:00"}}); err != nil {
		t.Fatalf("second DefineSchedule failed: %v", err)
	}

	stored, err := store.GetTemplates("owner-1")
	if err != nil {
		t.Fatalf("GetTemplates failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected old templates replaced, got %d templates", len(stored))
	}
	if stored[0].Kind != models.TaskKindWalk || stored[0].TimeOfDay != "07:00" {
		t.Errorf("unexpected surviving template: %+v", stored[0])
	}
}

func TestDefineSchedule_RejectsBadTime(t *testing.T) {
	sched, store := setupTestScheduler(t)

	if _, err := sched.DefineSchedule("owner-1", Times{Meal: []string{"08:00"}}); err != nil {
		t.Fatalf("seed DefineSchedule failed: %v", err)
	}

	_, err := sched.DefineSchedule("owner-1", Times{Meal: []string{"25:99"}})
	if err == nil {
		t.Fatal("expected error for invalid time of day")
	}

	// Validation happens before the wholesale delete, so the existing
	// schedule survives a rejected redefinition.
	stored, _ := store.GetTemplates("owner-1")
	if len(stored) != 1 {
		t.Errorf("rejected redefinition must not touch existing templates, got %d", len(stored))
	}
}

func TestMaterializeForDate_RoundTrip(t *testing.T) {
	sched, _ := setupTestScheduler(t)

	if _, err := sched.DefineSchedule("owner-1", Times{Walk: []string{"09:30"}}); err != nil {
		t.Fatalf("DefineSchedule failed: %v", err)
	}

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	created, err := sched.MaterializeForDate("owner-1", date)
	if err != nil {
		t.Fatalf("MaterializeForDate failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(created))
	}

	occurrence := created[0]
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)
	if !occurrence.ScheduledTime.Equal(want) {
		t.Errorf("expected scheduled time %v, got %v", want, occurrence.ScheduledTime)
	}
	if occurrence.Status != models.StatusPending {
		t.Errorf("expected status PENDING, got %s", occurrence.Status)
	}
	if occurrence.Kind != models.TaskKindWalk {
		t.Errorf("expected kind WALK, got %s", occurrence.Kind)
	}
	if occurrence.StartTime != nil || occurrence.EndTime != nil || occurrence.CountdownStartTime != nil {
		t.Error("fresh occurrence must have no start/end/countdown timestamps")
	}
	if occurrence.TemplateID == "" {
		t.Error("occurrence must reference its template")
	}
}

func TestMaterializeForDate_Idempotent(t *testing.T) {
	sched, store := setupTestScheduler(t)

	if _, err := sched.DefineSchedule("owner-1", Times{
		Meal: []string{"08:00", "18:00"},
		Walk: []string{"09:30"},
	}); err != nil {
		t.Fatalf("DefineSchedule failed: %v", err)
	}

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)

	first, err := sched.MaterializeForDate("owner-1", date)
	if err != nil {
		t.Fatalf("first materialization failed: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(first))
	}

	second, err := sched.MaterializeForDate("owner-1", date)
	if err != nil {
		t.Fatalf("second materialization failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("re-running a rollover must create nothing, got %d", len(second))
	}

	dayStart := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	dayEnd := time.Date(2024, 1, 15, 23, 59, 59, 0, time.Local)
	all, err := store.GetOccurrencesInRange("owner-1", dayStart, dayEnd)
	if err != nil {
		t.Fatalf("GetOccurrencesInRange failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 total occurrences after double rollover, got %d", len(all))
	}
}

func TestMaterializeForDate_SeparateDays(t *testing.T) {
	sched, _ := setupTestScheduler(t)

	if _, err := sched.DefineSchedule("owner-1", Times{Drink: []string{"12:00"}}); err != nil {
		t.Fatalf("DefineSchedule failed: %v", err)
	}

	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	tuesday := monday.AddDate(0, 0, 1)

	if created, _ := sched.MaterializeForDate("owner-1", monday); len(created) != 1 {
		t.Fatalf("expected 1 occurrence for monday, got %d", len(created))
	}
	created, err := sched.MaterializeForDate("owner-1", tuesday)
	if err != nil {
		t.Fatalf("MaterializeForDate failed: %v", err)
	}
	if len(created) != 1 {
		t.Errorf("a new day must materialize fresh occurrences, got %d", len(created))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	hour, minute, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay failed: %v", err)
	}
	if hour != 9 || minute != 30 {
		t.Errorf("expected 9:30, got %d:%d", hour, minute)
	}

	for _, bad := range []string{"9:30:00", "24:00", "noon", ""} {
		if _, _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
