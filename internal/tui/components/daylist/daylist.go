package daylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pupkeep/internal/models"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	statusStyles = map[models.TaskStatus]lipgloss.Style{
		models.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		models.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		models.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.StatusSkipped:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
		models.StatusMissed:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.StatusRescued:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true),
	}
)

// Model is the scrolling list of today's task occurrences.
type Model struct {
	tasks  []models.TaskOccurrence
	cursor int
	width  int
	height int
}

func New(tasks []models.TaskOccurrence, width, height int) Model {
	return Model{tasks: tasks, width: width, height: height}
}

func (m *Model) SetTasks(tasks []models.TaskOccurrence) {
	m.tasks = tasks
	if m.cursor >= len(tasks) {
		m.cursor = len(tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) CursorDown() {
	if m.cursor < len(m.tasks)-1 {
		m.cursor++
	}
}

// Selected returns the occurrence under the cursor.
func (m Model) Selected() (models.TaskOccurrence, bool) {
	if len(m.tasks) == 0 {
		return models.TaskOccurrence{}, false
	}
	return m.tasks[m.cursor], true
}

func (m Model) View() string {
	if len(m.tasks) == 0 {
		return "  No tasks for today.\n  Press r after running 'pupkeep rollover'."
	}

	start, end := m.viewport()

	var b strings.Builder
	for i := start; i < end; i++ {
		task := m.tasks[i]
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		style, ok := statusStyles[task.Status]
		if !ok {
			style = lipgloss.NewStyle()
		}

		line := fmt.Sprintf("%s  %-12s  %-11s",
			task.ScheduledTime.Local().Format("15:04"),
			task.Kind.DisplayName(),
			strings.ToLower(string(task.Status)),
		)
		b.WriteString(prefix + style.Render(line) + "\n")
	}
	return b.String()
}

// viewport clips the list to the configured height, scrolling so the cursor
// stays in view.
func (m Model) viewport() (start, end int) {
	if m.height <= 0 || len(m.tasks) <= m.height {
		return 0, len(m.tasks)
	}
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	end = start + m.height
	if end > len(m.tasks) {
		end = len(m.tasks)
	}
	return start, end
}
