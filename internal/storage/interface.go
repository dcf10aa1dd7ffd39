package storage

import (
	"time"

	"pupkeep/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Profiles
	SaveProfile(models.Profile) error
	GetProfile(id string) (models.Profile, error)

	// Schedule templates
	SaveTemplate(models.ScheduleTemplate) error
	GetTemplates(ownerID string) ([]models.ScheduleTemplate, error)
	DeleteTemplates(ownerID string) error

	// Task occurrences
	SaveOccurrence(models.TaskOccurrence) (models.TaskOccurrence, error)
	GetOccurrence(id string) (models.TaskOccurrence, error)
	GetOccurrencesInRange(ownerID string, start, end time.Time) ([]models.TaskOccurrence, error)
	HasOccurrenceForTemplate(ownerID, templateID string, start, end time.Time) (bool, error)
	CountOccurrencesByStatus(status models.TaskStatus) (int, error)

	// Walk records
	SaveWalkRecord(models.WalkRecord) error
	GetWalkRecord(occurrenceID string) (models.WalkRecord, error)

	// Utils
	GetConfigPath() string
}
