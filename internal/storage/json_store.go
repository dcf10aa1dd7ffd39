package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pupkeep/internal/models"
)

// JSONStore keeps everything in a single JSON document on disk. Each mutation
// rewrites the whole file; fine for a single-user CLI, not for concurrent
// processes.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

type jsonDocument struct {
	Version     int                                `json:"version"`
	Profiles    map[string]models.Profile          `json:"profiles"`
	Templates   map[string]models.ScheduleTemplate `json:"templates"`
	Occurrences map[string]models.TaskOccurrence   `json:"occurrences"`
	WalkRecords map[string]models.WalkRecord       `json:"walk_records"`
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = newJSONDocument()
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.doc != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'pupkeep init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if doc.Profiles == nil {
		doc.Profiles = make(map[string]models.Profile)
	}
	if doc.Templates == nil {
		doc.Templates = make(map[string]models.ScheduleTemplate)
	}
	if doc.Occurrences == nil {
		doc.Occurrences = make(map[string]models.TaskOccurrence)
	}
	if doc.WalkRecords == nil {
		doc.WalkRecords = make(map[string]models.WalkRecord)
	}

	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func newJSONDocument() *jsonDocument {
	return &jsonDocument{
		Version:     1,
		Profiles:    make(map[string]models.Profile),
		Templates:   make(map[string]models.ScheduleTemplate),
		Occurrences: make(map[string]models.TaskOccurrence),
		WalkRecords: make(map[string]models.WalkRecord),
	}
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) SaveProfile(p models.Profile) error {
	if err := s.loaded(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.doc.Profiles[p.ID] = p
	return s.save()
}

func (s *JSONStore) GetProfile(id string) (models.Profile, error) {
	if err := s.loaded(); err != nil {
		return models.Profile{}, err
	}
	p, ok := s.doc.Profiles[id]
	if !ok {
		return models.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *JSONStore) SaveTemplate(t models.ScheduleTemplate) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.doc.Templates[t.ID] = t
	return s.save()
}

func (s *JSONStore) GetTemplates(ownerID string) ([]models.ScheduleTemplate, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var templates []models.ScheduleTemplate
	for _, t := range s.doc.Templates {
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

func (s *JSONStore) DeleteTemplates(ownerID string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for id, t := range s.doc.Templates {
		if t.OwnerID == ownerID {
			delete(s.doc.Templates, id)
		}
	}
	return s.save()
}

func (s *JSONStore) SaveOccurrence(o models.TaskOccurrence) (models.TaskOccurrence, error) {
	if err := s.loaded(); err != nil {
		return models.TaskOccurrence{}, err
	}
	now := time.Now().UTC()

	if o.Version == 0 {
		o.Version = 1
		o.CreatedAt = now
		o.UpdatedAt = now
		s.doc.Occurrences[o.ID] = o
		if err := s.save(); err != nil {
			return models.TaskOccurrence{}, err
		}
		return o, nil
	}

	current, ok := s.doc.Occurrences[o.ID]
	if !ok {
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s: %w", o.ID, ErrNotFound)
	}
	if current.Version != o.Version {
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s at version %d: %w", o.ID, o.Version, ErrVersionConflict)
	}

	o.Version++
	o.UpdatedAt = now
	s.doc.Occurrences[o.ID] = o
	if err := s.save(); err != nil {
		return models.TaskOccurrence{}, err
	}
	return o, nil
}

func (s *JSONStore) GetOccurrence(id string) (models.TaskOccurrence, error) {
	if err := s.loaded(); err != nil {
		return models.TaskOccurrence{}, err
	}
	o, ok := s.doc.Occurrences[id]
	if !ok {
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	return o, nil
}

func (s *JSONStore) GetOccurrencesInRange(ownerID string, start, end time.Time) ([]models.TaskOccurrence, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var occurrences []models.TaskOccurrence
	for _, o := range s.doc.Occurrences {
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

func (s *JSONStore) HasOccurrenceForTemplate(ownerID, templateID string, start, end time.Time) (bool, error) {
	if err := s.loaded(); err != nil {
		return false, err
	}
	for _, o := range s.doc.Occurrences {
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

func (s *JSONStore) CountOccurrencesByStatus(status models.TaskStatus) (int, error) {
	if err := s.loaded(); err != nil {
		return 0, err
	}
	count := 0
	for _, o := range s.doc.Occurrences {
		if o.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *JSONStore) SaveWalkRecord(r models.WalkRecord) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.WalkRecords[r.OccurrenceID]; ok {
		return fmt.Errorf("walk record for occurrence %s: %w", r.OccurrenceID, ErrExists)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.doc.WalkRecords[r.OccurrenceID] = r
	return s.save()
}

func (s *JSONStore) GetWalkRecord(occurrenceID string) (models.WalkRecord, error) {
	if err := s.loaded(); err != nil {
		return models.WalkRecord{}, err
	}
	r, ok := s.doc.WalkRecords[occurrenceID]
	if !ok {
		return models.WalkRecord{}, fmt.Errorf("walk record for occurrence %s: %w", occurrenceID, ErrNotFound)
	}
	return r, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
