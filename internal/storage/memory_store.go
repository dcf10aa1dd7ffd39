package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pupkeep/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Provider used by tests.
type MemoryStore struct {
	mu          sync.RWMutex
	profiles    map[string]models.Profile
	templates   map[string]models.ScheduleTemplate
	occurrences map[string]models.TaskOccurrence
	walkRecords map[string]models.WalkRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[string]models.Profile),
		templates:   make(map[string]models.ScheduleTemplate),
		occurrences: make(map[string]models.TaskOccurrence),
		walkRecords: make(map[string]models.WalkRecord),
	}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveProfile(p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.ID] = p
	return nil
}

func (s *MemoryStore) GetProfile(id string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *MemoryStore) SaveTemplate(t models.ScheduleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.templates[t.ID] = t
	return nil
}

func (s *MemoryStore) GetTemplates(ownerID string) ([]models.ScheduleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var templates []models.ScheduleTemplate
	for _, t := range s.templates {
		if t.OwnerID == ownerID {
			templates = append(templates, t)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].TimeOfDay != templates[j].TimeOfDay {
			return templates[i].TimeOfDay < templates[j].TimeOfDay
		}
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

func (s *MemoryStore) DeleteTemplates(ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.templates {
		if t.OwnerID == ownerID {
			delete(s.templates, id)
		}
	}
	return nil
}

func (s *MemoryStore) SaveOccurrence(o models.TaskOccurrence) (models.TaskOccurrence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()

	if o.Version == 0 {
		o.Version = 1
		o.CreatedAt = now
		o.UpdatedAt = now
		s.occurrences[o.ID] = o
		return o, nil
	}

	current, ok := s.occurrences[o.ID]
	if !ok {
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s: %w", o.ID, ErrNotFound)
	}
	if current.Version != o.Version {
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s at version %d: %w", o.ID, o.Version, ErrVersionConflict)
	}

	o.Version++
	o.UpdatedAt = now
	s.occurrences[o.ID] = o
	return o, nil
}

func (s *MemoryStore) GetOccurrence(id string) (models.TaskOccurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.occurrences[id]
	if !ok {
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	return o, nil
}

func (s *MemoryStore) GetOccurrencesInRange(ownerID string, start, end time.Time) ([]models.TaskOccurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var occurrences []models.TaskOccurrence
	for _, o := range s.occurrences {
		if o.OwnerID != ownerID {
			continue
		}
		if o.ScheduledTime.Before(start) || o.ScheduledTime.After(end) {
			continue
		}
		occurrences = append(occurrences, o)
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].ScheduledTime.Before(occurrences[j].ScheduledTime)
	})
	return occurrences, nil
}

func (s *MemoryStore) HasOccurrenceForTemplate(ownerID, templateID string, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.occurrences {
		if o.OwnerID != ownerID || o.TemplateID != templateID {
			continue
		}
		if o.ScheduledTime.Before(start) || o.ScheduledTime.After(end) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (s *MemoryStore) CountOccurrencesByStatus(status models.TaskStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, o := range s.occurrences {
		if o.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) SaveWalkRecord(r models.WalkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.walkRecords[r.OccurrenceID]; ok {
		return fmt.Errorf("walk record for occurrence %s: %w", r.OccurrenceID, ErrExists)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.walkRecords[r.OccurrenceID] = r
	return nil
}

func (s *MemoryStore) GetWalkRecord(occurrenceID string) (models.WalkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.walkRecords[occurrenceID]
	if !ok {
		return models.WalkRecord{}, fmt.Errorf("walk record for occurrence %s: %w", occurrenceID, ErrNotFound)
	}
	return r, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
