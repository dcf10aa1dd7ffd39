package lifecycle

import (
	"fmt"

	"pupkeep/internal/models"
)

// NotFoundError is returned when the referenced occurrence does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found with ID: %s", e.ID)
}

// InvalidTransitionError is returned when an operation's guard rejects the
// occurrence's current status. It carries both for diagnostics.
type InvalidTransitionError struct {
	Op     string
	Status models.TaskStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s task in status: %s", e.Op, e.Status)
}
