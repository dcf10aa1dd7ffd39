package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"pupkeep/internal/lifecycle"
	"pupkeep/internal/models"
	"pupkeep/internal/tui/components/daylist"
)

const tuiDelayMinutes = 15

type Model struct {
	engine   *lifecycle.Engine
	owner    string
	keys     KeyMap
	help     help.Model
	list     daylist.Model
	status   string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(engine *lifecycle.Engine, owner string) Model {
	tasks, err := engine.TodayTasks(owner)
	m := Model{
		engine: engine,
		owner:  owner,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		list:   daylist.New(tasks, 0, 0),
	}
	if err != nil {
		m.errMsg = err.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) refresh() {
	tasks, err := m.engine.TodayTasks(m.owner)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.list.SetTasks(tasks)
}

// act runs one lifecycle operation against the selected occurrence and
// refreshes the list. Guard failures show up in the status line instead of
// crashing the view.
func (m *Model) act(op func(id string) (models.TaskOccurrence, error), verb string) {
	selected, ok := m.list.Selected()
	if !ok {
		return
	}

	m.errMsg = ""
	task, err := op(selected.ID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.status = verb + " " + task.Kind.DisplayName() + " (" + task.ScheduledTime.Local().Format("15:04") + ")"
	m.refresh()
}

func (m *Model) startSelected() {
	m.act(m.engine.Start, "Started")
}

func (m *Model) completeSelected() {
	// Walk outcome details are a CLI concern ('task complete --walk ...');
	// the TUI completes without a payload.
	m.act(func(id string) (models.TaskOccurrence, error) {
		return m.engine.Complete(id, nil)
	}, "Completed")
}

func (m *Model) delaySelected() {
	m.act(func(id string) (models.TaskOccurrence, error) {
		return m.engine.Delay(id, tuiDelayMinutes)
	}, "Delayed")
}

func (m *Model) skipSelected() {
	m.act(m.engine.Skip, "Skipped")
}

func today() string {
	return time.Now().Format("2006-01-02")
}
