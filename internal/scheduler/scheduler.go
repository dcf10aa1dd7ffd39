package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pupkeep/internal/models"
	"pupkeep/internal/storage"
)

// Times holds the recurring time-of-day entries for one schedule definition,
// grouped by task kind. Entries are HH:MM strings.
type Times struct {
	Meal  []string
	Walk  []string
	Drink []string
}

// Scheduler turns recurring schedule templates into dated task occurrences.
// It performs no transition logic; the lifecycle engine owns mutation of
// occurrences after creation.
type Scheduler struct {
	store storage.Provider
	log   zerolog.Logger
}

func New(store storage.Provider, log zerolog.Logger) *Scheduler {
	return &Scheduler{store: store, log: log}
}

// DefineSchedule replaces the owner's schedule wholesale: every existing
// template is removed before the new set is created. Occurrences already
// materialized from the old templates are left untouched.
func (s *Scheduler) DefineSchedule(ownerID string, times Times) ([]models.ScheduleTemplate, error) {
	entries := []struct {
		kind  models.TaskKind
		times []string
	}{
		{models.TaskKindMeal, times.Meal},
		{models.TaskKindWalk, times.Walk},
		{models.TaskKindDrink, times.Drink},
	}

	for _, group := range entries {
		for _, tod := range group.times {
			if _, _, err := ParseTimeOfDay(tod); err != nil {
				return nil, fmt.Errorf("invalid %s time %q: %w", group.kind, tod, err)
			}
		}
	}

	if err := s.store.DeleteTemplates(ownerID); err != nil {
		return nil, fmt.Errorf("failed to remove previous templates: %w", err)
	}

	var created []models.ScheduleTemplate
	for _, group := range entries {
		for _, tod := range group.times {
			template := models.ScheduleTemplate{
				ID:        uuid.New().String(),
				OwnerID:   ownerID,
				Kind:      group.kind,
				TimeOfDay: tod,
			}
			if err := s.store.SaveTemplate(template); err != nil {
				return nil, fmt.Errorf("failed to save template: %w", err)
			}
			created = append(created, template)
		}
	}

	s.log.Info().Str("owner", ownerID).Int("templates", len(created)).Msg("schedule defined")
	return created, nil
}

// MaterializeForDate creates one PENDING occurrence per template at the
// template's time-of-day on the given date. A template that already has an
// occurrence for that date is skipped, so re-running a rollover is a no-op.
// Returns only the newly created occurrences.
func (s *Scheduler) MaterializeForDate(ownerID string, date time.Time) ([]models.TaskOccurrence, error) {
	templates, err := s.store.GetTemplates(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	dayStart, dayEnd := dayWindow(date)

	var created []models.TaskOccurrence
	for _, template := range templates {
		exists, err := s.store.HasOccurrenceForTemplate(ownerID, template.ID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing occurrences: %w", err)
		}
		if exists {
			continue
		}

		hour, minute, err := ParseTimeOfDay(template.TimeOfDay)
		if err != nil {
			return nil, fmt.Errorf("template %s has invalid time %q: %w", template.ID, template.TimeOfDay, err)
		}

		occurrence := models.TaskOccurrence{
			ID:         uuid.New().String(),
			OwnerID:    ownerID,
			TemplateID: template.ID,
			Kind:       template.Kind,
			ScheduledTime: time.Date(
				date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location(),
			),
			Status: models.StatusPending,
		}

		saved, err := s.store.SaveOccurrence(occurrence)
		if err != nil {
			return nil, fmt.Errorf("failed to save occurrence: %w", err)
		}
		created = append(created, saved)
	}

	s.log.Info().
		Str("owner", ownerID).
		Str("date", date.Format("2006-01-02")).
		Int("created", len(created)).
		Int("templates", len(templates)).
		Msg("occurrences materialized")
	return created, nil
}

// ParseTimeOfDay parses an HH:MM string.
func ParseTimeOfDay(tod string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", tod)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// dayWindow returns the inclusive 24-hour query window for a date.
func dayWindow(date time.Time) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end = time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
	return start, end
}
