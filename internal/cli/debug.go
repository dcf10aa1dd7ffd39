package cli

import (
	"fmt"

	"pupkeep/internal/models"
)

// DebugCmd prints storage diagnostics: the data path and occurrence counts
// per status.
type DebugCmd struct{}

func (c *DebugCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	fmt.Printf("Storage: %s\n\n", ctx.Store.GetConfigPath())

	statuses := []models.TaskStatus{
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusSkipped,
		models.StatusMissed,
		models.StatusRescued,
	}
	fmt.Println("Occurrences by status:")
	for _, status := range statuses {
		count, err := ctx.Engine.CountByStatus(status)
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s %d\n", status, count)
	}
	return nil
}
