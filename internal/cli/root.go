package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pupkeep/internal/config"
	"pupkeep/internal/lifecycle"
	"pupkeep/internal/models"
	"pupkeep/internal/profile"
	"pupkeep/internal/scheduler"
	"pupkeep/internal/storage"
)

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Engine    *lifecycle.Engine
	Profiles  *profile.Service
	Config    config.Config
	Log       zerolog.Logger
}

// resolveOwner picks the explicit flag over the configured default.
func (ctx *Context) resolveOwner(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if ctx.Config.OwnerID != "" {
		return ctx.Config.OwnerID, nil
	}
	return "", fmt.Errorf("no owner given; pass --owner or set owner_id in the config file")
}

func parseDate(s string) (time.Time, error) {
	if s == "" || s == "today" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}
	return date, nil
}

// parseTimesCSV splits a comma-separated list of HH:MM entries.
func parseTimesCSV(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var times []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if _, _, err := scheduler.ParseTimeOfDay(part); err != nil {
			return nil, fmt.Errorf("invalid time %q: use HH:MM", part)
		}
		times = append(times, part)
	}
	return times, nil
}

func parseMood(s string) (models.Mood, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	mood := models.Mood(strings.ToUpper(strings.TrimSpace(s)))
	if !mood.Valid() {
		return "", fmt.Errorf("invalid mood %q (happy|neutral|tired|excited|anxious)", s)
	}
	return mood, nil
}

func formatStatus(status models.TaskStatus) string {
	return fmt.Sprintf("[%s]", strings.ToLower(string(status)))
}

func formatOccurrenceLine(o models.TaskOccurrence) string {
	line := fmt.Sprintf("%s  %-12s  %-13s  %s",
		o.ScheduledTime.Local().Format("15:04"),
		o.Kind.DisplayName(),
		formatStatus(o.Status),
		o.ID,
	)
	return line
}
