package models

import "time"

// ScheduleTemplate is a recurring time-of-day rule that seeds one occurrence
// per day. Templates are replaced wholesale when a schedule is redefined;
// already-materialized occurrences keep their back-reference untouched.
type ScheduleTemplate struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Kind      TaskKind  `json:"kind"`
	TimeOfDay string    `json:"time_of_day"` // HH:MM format
	CreatedAt time.Time `json:"created_at"`
}

// TaskOccurrence is one dated instance of a recurring task.
//
// Status and the optional timestamps move together: PENDING has neither
// start nor end set, IN_PROGRESS has a start and no end, every terminal
// status carries an end time. Only the lifecycle engine mutates an
// occurrence after creation.
type TaskOccurrence struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	TemplateID         string     `json:"template_id,omitempty"`
	Kind               TaskKind   `json:"kind"`
	ScheduledTime      time.Time  `json:"scheduled_time"`
	Status             TaskStatus `json:"status"`
	StartTime          *time.Time `json:"start_time,omitempty"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	CountdownStartTime *time.Time `json:"countdown_start_time,omitempty"`

	// Version increments on every save; stores reject writes against a
	// stale read so concurrent transitions cannot both win.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
