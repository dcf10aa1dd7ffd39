package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pupkeep/internal/tui"
)

type TuiCmd struct {
	Owner string `help:"Profile id (defaults to config owner_id)."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	owner, err := ctx.resolveOwner(c.Owner)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Engine, owner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
