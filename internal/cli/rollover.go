package cli

import "fmt"

type RolloverCmd struct {
	Date  string `arg:"" help:"Date to materialize (YYYY-MM-DD or 'today')." default:"today"`
	Owner string `help:"Profile id (defaults to config owner_id)."`
}

func (c *RolloverCmd) Run(ctx *Context) error {
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

	created, err := ctx.Scheduler.MaterializeForDate(owner, date)
	if err != nil {
		return err
	}

	if len(created) == 0 {
		fmt.Printf("Nothing to do for %s (already materialized or no templates)\n", date.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("Created %d task(s) for %s:\n", len(created), date.Format("2006-01-02"))
	for _, task := range created {
		fmt.Println("  " + formatOccurrenceLine(task))
	}
	return nil
}
