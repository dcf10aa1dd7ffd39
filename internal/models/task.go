package models

type TaskKind string

const (
	TaskKindMeal  TaskKind = "MEAL"
	TaskKindWalk  TaskKind = "WALK"
	TaskKindDrink TaskKind = "DRINK"
)

// DisplayName returns the human-readable label for the kind.
func (k TaskKind) DisplayName() string {
	switch k {
	case TaskKindMeal:
		return "Meal Time"
	case TaskKindWalk:
		return "Walk Time"
	case TaskKindDrink:
		return "Drink Time"
	default:
		return string(k)
	}
}

// DefaultDurationMin is the expected duration of a task of this kind.
func (k TaskKind) DefaultDurationMin() int {
	switch k {
	case TaskKindMeal:
		return 30
	case TaskKindWalk:
		return 60
	case TaskKindDrink:
		return 15
	default:
		return 30
	}
}

func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindMeal, TaskKindWalk, TaskKindDrink:
		return true
	}
	return false
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusSkipped    TaskStatus = "SKIPPED"
	StatusMissed     TaskStatus = "MISSED"
	StatusRescued    TaskStatus = "RESCUED"
)

// IsActive reports whether the task can still be acted on today.
func (s TaskStatus) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// IsResolved reports whether the task was carried out (rescued counts).
func (s TaskStatus) IsResolved() bool {
	return s == StatusCompleted || s == StatusRescued
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped, StatusMissed, StatusRescued:
		return true
	}
	return false
}
