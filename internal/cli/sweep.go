package cli

import (
	"fmt"
	"time"
)

// SweepCmd is the external time-based trigger that moves stale pending tasks
// to MISSED. Nothing in the normal client flow produces that status.
type SweepCmd struct {
	Date  string `arg:"" help:"Date to sweep (YYYY-MM-DD or 'today')." default:"today"`
	Owner string `help:"Profile id (defaults to config owner_id)."`
	Grace int    `help:"Grace period in minutes past the scheduled time." default:"-1"`
}

func (c *SweepCmd) Run(ctx *Context) error {
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

	grace := c.Grace
	if grace < 0 {
		grace = ctx.Config.SweepGraceMin
	}

	missed, err := ctx.Engine.SweepMissed(owner, date, time.Duration(grace)*time.Minute)
	if err != nil {
		return err
	}

	if len(missed) == 0 {
		fmt.Println("No tasks to mark missed")
		return nil
	}

	fmt.Printf("Marked %d task(s) missed:\n", len(missed))
	for _, task := range missed {
		fmt.Println("  " + formatOccurrenceLine(task))
	}
	return nil
}
