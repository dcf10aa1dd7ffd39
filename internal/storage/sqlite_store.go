package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pupkeep/internal/migration"
	"pupkeep/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'pupkeep init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner := migration.NewRunner(s.db, s.migrationFS())
	return runner.Validate()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	runner := migration.NewRunner(s.db, s.migrationFS())
	_, err := runner.Apply()
	return err
}

func (s *SQLiteStore) migrationFS() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Timestamps are stored as RFC3339 in UTC so lexicographic comparison in SQL
// matches chronological order.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseStoredTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func fmtTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: fmtTime(*t), Valid: true}
}

func parseStoredTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseStoredTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) SaveProfile(p models.Profile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO profiles (
			id, name, age_months, weight_kg, puppy, meal_offset_min, drink_offset_min, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.AgeMonths, p.WeightKg, p.Puppy, p.MealOffsetMin, p.DrinkOffsetMin,
		fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetProfile(id string) (models.Profile, error) {
	row := s.db.QueryRow(`
		SELECT id, name, age_months, weight_kg, puppy, meal_offset_min, drink_offset_min, created_at, updated_at
		FROM profiles WHERE id = ?`, id)

	var p models.Profile
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.AgeMonths, &p.WeightKg, &p.Puppy, &p.MealOffsetMin, &p.DrinkOffsetMin, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return models.Profile{}, err
	}

	if p.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return models.Profile{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return models.Profile{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) SaveTemplate(t models.ScheduleTemplate) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO schedule_templates (id, owner_id, kind, time_of_day, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Kind, t.TimeOfDay, fmtTime(t.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetTemplates(ownerID string) ([]models.ScheduleTemplate, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, kind, time_of_day, created_at
		FROM schedule_templates WHERE owner_id = ? ORDER BY time_of_day`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.ScheduleTemplate
	for rows.Next() {
		var t models.ScheduleTemplate
		var kind, createdAt string
		if err := rows.Scan(&t.ID, &t.OwnerID, &kind, &t.TimeOfDay, &createdAt); err != nil {
			return nil, err
		}
		t.Kind = models.TaskKind(kind)
		if t.CreatedAt, err = parseStoredTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *SQLiteStore) DeleteTemplates(ownerID string) error {
	_, err := s.db.Exec("DELETE FROM schedule_templates WHERE owner_id = ?", ownerID)
	return err
}

func (s *SQLiteStore) SaveOccurrence(o models.TaskOccurrence) (models.TaskOccurrence, error) {
	now := time.Now().UTC()

	if o.Version == 0 {
		o.Version = 1
		o.CreatedAt = now
		o.UpdatedAt = now
		_, err := s.db.Exec(`
			INSERT INTO task_occurrences (
				id, owner_id, template_id, kind, scheduled_time, status,
				start_time, end_time, countdown_start_time, version, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OwnerID, o.TemplateID, o.Kind, fmtTime(o.ScheduledTime), o.Status,
			fmtTimePtr(o.StartTime), fmtTimePtr(o.EndTime), fmtTimePtr(o.CountdownStartTime),
			o.Version, fmtTime(o.CreatedAt), fmtTime(o.UpdatedAt),
		)
		if err != nil {
			return models.TaskOccurrence{}, err
		}
		return o, nil
	}

	// Updates assert the version read so concurrent transitions against the
	// same occurrence cannot both win.
	readVersion := o.Version
	o.Version++
	o.UpdatedAt = now
	res, err := s.db.Exec(`
		UPDATE task_occurrences SET
			owner_id = ?, template_id = ?, kind = ?, scheduled_time = ?, status = ?,
			start_time = ?, end_time = ?, countdown_start_time = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		o.OwnerID, o.TemplateID, o.Kind, fmtTime(o.ScheduledTime), o.Status,
		fmtTimePtr(o.StartTime), fmtTimePtr(o.EndTime), fmtTimePtr(o.CountdownStartTime),
		o.Version, fmtTime(o.UpdatedAt),
		o.ID, readVersion,
	)
	if err != nil {
		return models.TaskOccurrence{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.TaskOccurrence{}, err
	}
	if affected == 0 {
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM task_occurrences WHERE id = ?", o.ID).Scan(&exists); err != nil {
			return models.TaskOccurrence{}, err
		}
		if exists == 0 {
			return models.TaskOccurrence{}, fmt.Errorf("occurrence %s: %w", o.ID, ErrNotFound)
		}
		return models.TaskOccurrence{}, fmt.Errorf("occurrence %s at version %d: %w", o.ID, readVersion, ErrVersionConflict)
	}
	return o, nil
}

func (s *SQLiteStore) GetOccurrence(id string) (models.TaskOccurrence, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, template_id, kind, scheduled_time, status,
		       start_time, end_time, countdown_start_time, version, created_at, updated_at
		FROM task_occurrences WHERE id = ?`, id)

	o, err := scanOccurrence(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TaskOccurrence{}, fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
		}
		return models.TaskOccurrence{}, err
	}
	return o, nil
}

func (s *SQLiteStore) GetOccurrencesInRange(ownerID string, start, end time.Time) ([]models.TaskOccurrence, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, template_id, kind, scheduled_time, status,
		       start_time, end_time, countdown_start_time, version, created_at, updated_at
		FROM task_occurrences
		WHERE owner_id = ? AND scheduled_time >= ? AND scheduled_time <= ?
		ORDER BY scheduled_time`,
		ownerID, fmtTime(start), fmtTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occurrences []models.TaskOccurrence
	for rows.Next() {
		o, err := scanOccurrence(rows.Scan)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences, o)
	}
	return occurrences, rows.Err()
}

func (s *SQLiteStore) HasOccurrenceForTemplate(ownerID, templateID string, start, end time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM task_occurrences
		WHERE owner_id = ? AND template_id = ? AND scheduled_time >= ? AND scheduled_time <= ?`,
		ownerID, templateID, fmtTime(start), fmtTime(end)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStore) CountOccurrencesByStatus(status models.TaskStatus) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM task_occurrences WHERE status = ?", status).Scan(&count)
	return count, err
}

func scanOccurrence(scan func(dest ...any) error) (models.TaskOccurrence, error) {
	var o models.TaskOccurrence
	var kind, status, scheduledTime, createdAt, updatedAt string
	var templateID, startTime, endTime, countdownStart sql.NullString

	err := scan(
		&o.ID, &o.OwnerID, &templateID, &kind, &scheduledTime, &status,
		&startTime, &endTime, &countdownStart, &o.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.TaskOccurrence{}, err
	}

	o.Kind = models.TaskKind(kind)
	o.Status = models.TaskStatus(status)
	o.TemplateID = templateID.String

	if o.ScheduledTime, err = parseStoredTime(scheduledTime); err != nil {
		return models.TaskOccurrence{}, fmt.Errorf("parsing scheduled_time: %w", err)
	}
	if o.StartTime, err = parseStoredTimePtr(startTime); err != nil {
		return models.TaskOccurrence{}, fmt.Errorf("parsing start_time: %w", err)
	}
	if o.EndTime, err = parseStoredTimePtr(endTime); err != nil {
		return models.TaskOccurrence{}, fmt.Errorf("parsing end_time: %w", err)
	}
	if o.CountdownStartTime, err = parseStoredTimePtr(countdownStart); err != nil {
		return models.TaskOccurrence{}, fmt.Errorf("parsing countdown_start_time: %w", err)
	}
	if o.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return models.TaskOccurrence{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if o.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return models.TaskOccurrence{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return o, nil
}

func (s *SQLiteStore) SaveWalkRecord(r models.WalkRecord) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM walk_records WHERE occurrence_id = ?", r.OccurrenceID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("walk record for occurrence %s: %w", r.OccurrenceID, ErrExists)
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO walk_records (occurrence_id, start_time, end_time, pee, poo, mood, notes, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OccurrenceID, fmtTime(r.StartTime), fmtTime(r.EndTime), r.Pee, r.Poo,
		string(r.Mood), r.Notes, r.PhotoURL, fmtTime(r.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetWalkRecord(occurrenceID string) (models.WalkRecord, error) {
	row := s.db.QueryRow(`
		SELECT occurrence_id, start_time, end_time, pee, poo, mood, notes, photo_url, created_at
		FROM walk_records WHERE occurrence_id = ?`, occurrenceID)

	var r models.WalkRecord
	var startTime, endTime, createdAt string
	var mood, notes, photoURL sql.NullString
	err := row.Scan(&r.OccurrenceID, &startTime, &endTime, &r.Pee, &r.Poo, &mood, &notes, &photoURL, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WalkRecord{}, fmt.Errorf("walk record for occurrence %s: %w", occurrenceID, ErrNotFound)
		}
		return models.WalkRecord{}, err
	}

	r.Mood = models.Mood(mood.String)
	r.Notes = notes.String
	r.PhotoURL = photoURL.String
	if r.StartTime, err = parseStoredTime(startTime); err != nil {
		return models.WalkRecord{}, fmt.Errorf("parsing start_time: %w", err)
	}
	if r.EndTime, err = parseStoredTime(endTime); err != nil {
		return models.WalkRecord{}, fmt.Errorf("parsing end_time: %w", err)
	}
	if r.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return models.WalkRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
