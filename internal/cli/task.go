package cli

import (
	"fmt"

	"pupkeep/internal/lifecycle"
	"pupkeep/internal/models"
)

type TaskListCmd struct {
	Owner string `help:"Profile id (defaults to config owner_id)."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	owner, err := ctx.resolveOwner(c.Owner)
	if err != nil {
		return err
	}

	tasks, err := ctx.Engine.TodayTasks(owner)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks for today. Run 'pupkeep rollover' to materialize them.")
		return nil
	}

	for _, task := range tasks {
		fmt.Println(formatOccurrenceLine(task))
	}
	return nil
}

type TaskStartCmd struct {
	ID string `arg:"" help:"Task occurrence id."`
}

func (c *TaskStartCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	task, err := ctx.Engine.Start(c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Started %s at %s\n", task.Kind.DisplayName(), task.StartTime.Local().Format("15:04"))
	return nil
}

type TaskCompleteCmd struct {
	ID    string `arg:"" help:"Task occurrence id."`
	Pee   bool   `help:"Walk outcome: relieved."`
	Poo   bool   `help:"Walk outcome: defecated."`
	Mood  string `help:"Walk outcome mood (happy|neutral|tired|excited|anxious)."`
	Note  string `help:"Walk outcome note."`
	Photo string `help:"Walk outcome photo URL."`
	Walk  bool   `help:"Record walk outcome details."`
}

func (c *TaskCompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var details *lifecycle.WalkDetails
	if c.Walk || c.Pee || c.Poo || c.Mood != "" || c.Note != "" || c.Photo != "" {
		mood, err := parseMood(c.Mood)
		if err != nil {
			return err
		}
		details = &lifecycle.WalkDetails{
			Pee:      c.Pee,
			Poo:      c.Poo,
			Mood:     mood,
			Notes:    c.Note,
			PhotoURL: c.Photo,
		}
	}

	task, err := ctx.Engine.Complete(c.ID, details)
	if err != nil {
		return err
	}
	fmt.Printf("Completed %s at %s\n", task.Kind.DisplayName(), task.EndTime.Local().Format("15:04"))
	if details != nil && task.Kind != models.TaskKindWalk {
		fmt.Println("Note: outcome details are only recorded for walks; none were saved.")
	}
	return nil
}

type TaskDelayCmd struct {
	ID      string `arg:"" help:"Task occurrence id."`
	Minutes int    `arg:"" help:"Minutes to delay (1-1440)."`
}

func (c *TaskDelayCmd) Validate() error {
	if c.Minutes < 1 || c.Minutes > 1440 {
		return fmt.Errorf("delay must be between 1 and 1440 minutes")
	}
	return nil
}

func (c *TaskDelayCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	task, err := ctx.Engine.Delay(c.ID, c.Minutes)
	if err != nil {
		return err
	}
	fmt.Printf("Delayed %s to %s\n", task.Kind.DisplayName(), task.ScheduledTime.Local().Format("15:04"))
	return nil
}

type TaskSkipCmd struct {
	ID string `arg:"" help:"Task occurrence id."`
}

func (c *TaskSkipCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	task, err := ctx.Engine.Skip(c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Skipped %s\n", task.Kind.DisplayName())
	return nil
}

// TaskRescueCmd is the manual recovery path for a missed task.
type TaskRescueCmd struct {
	ID string `arg:"" help:"Task occurrence id."`
}

func (c *TaskRescueCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	task, err := ctx.Engine.Rescue(c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Rescued %s\n", task.Kind.DisplayName())
	return nil
}
