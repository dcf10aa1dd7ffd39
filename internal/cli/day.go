package cli

import (
	"fmt"

	"pupkeep/internal/models"
)

type DayCmd struct {
	Date  string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
	Owner string `help:"Profile id (defaults to config owner_id)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	owner, err := ctx.resolveOwner(c.Owner)
	if err != nil {
		return err
	}

	date, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	tasks, err := ctx.Engine.TasksForDate(owner, date)
	if err != nil {
		return err
	}

	fmt.Printf("Tasks for %s:\n\n", date.Format("2006-01-02"))
	if len(tasks) == 0 {
		fmt.Println("  No tasks scheduled. Run 'pupkeep rollover' to materialize the day.")
		return nil
	}

	for _, task := range tasks {
		fmt.Println(formatOccurrenceLine(task))
		if task.Kind == models.TaskKindWalk && task.Status == models.StatusCompleted {
			record, err := ctx.Store.GetWalkRecord(task.ID)
			if err != nil {
				continue // best-effort side write may be missing
			}
			line := fmt.Sprintf("       walk: pee=%t poo=%t", record.Pee, record.Poo)
			if record.Mood != "" {
				line += fmt.Sprintf(" mood=%s", record.Mood)
			}
			fmt.Println(line)
			if record.Notes != "" {
				fmt.Printf("       note: %s\n", record.Notes)
			}
		}
	}
	return nil
}
