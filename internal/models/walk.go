package models

import "time"

type Mood string

const (
	MoodHappy   Mood = "HAPPY"
	MoodNeutral Mood = "NEUTRAL"
	MoodTired   Mood = "TIRED"
	MoodExcited Mood = "EXCITED"
	MoodAnxious Mood = "ANXIOUS"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodTired, MoodExcited, MoodAnxious:
		return true
	}
	return false
}

// WalkRecord holds the observations gathered while a walk occurrence was
// carried out. At most one exists per occurrence and it is written exactly
// once, when the occurrence completes.
type WalkRecord struct {
	OccurrenceID string    `json:"occurrence_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Pee          bool      `json:"pee"`
	Poo          bool      `json:"poo"`
	Mood         Mood      `json:"mood,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
