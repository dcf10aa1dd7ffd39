package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
)

// WatchCmd runs the external timer the lifecycle core deliberately does not
// own: a daemon that materializes the day's occurrences on a cron schedule
// and sweeps stale pending tasks to MISSED.
type WatchCmd struct {
	Owner string `help:"Profile id (defaults to config owner_id)."`
}

func (c *WatchCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	owner, err := ctx.resolveOwner(c.Owner)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(ctx.Config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}

	grace := time.Duration(ctx.Config.SweepGraceMin) * time.Minute
	rollover := func() {
		now := time.Now().In(loc)
		if _, err := ctx.Scheduler.MaterializeForDate(owner, now); err != nil {
			ctx.Log.Error().Err(err).Msg("rollover failed")
		}
		if _, err := ctx.Engine.SweepMissed(owner, now, grace); err != nil {
			ctx.Log.Error().Err(err).Msg("miss sweep failed")
		}
	}

	runner := cron.New(cron.WithLocation(loc))
	if _, err := runner.AddFunc(ctx.Config.RolloverSpec, rollover); err != nil {
		return fmt.Errorf("invalid rollover spec %q: %w", ctx.Config.RolloverSpec, err)
	}

	// Catch up immediately so a daemon started mid-day still has tasks.
	rollover()

	ctx.Log.Info().
		Str("owner", owner).
		Str("spec", ctx.Config.RolloverSpec).
		Str("tz", loc.String()).
		Msg("watch daemon running")
	runner.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	stopCtx := runner.Stop()
	<-stopCtx.Done()
	ctx.Log.Info().Msg("watch daemon stopped")
	return nil
}
