package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/studio/internal/models"
)

// BoardActions is what the board needs from the task store.
type BoardActions interface {
	Tasks() ([]models.Task, error)
	SetStatus(taskID uint, status models.Status) error
}

type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

type statusChangedMsg struct {
	taskID uint
	status models.Status
	err    error
}

// BoardModel is the interactive task board: a paged task list with a detail
// panel, a search filter and status hotkeys.
type BoardModel struct {
	width  int
	height int

	actions BoardActions
	now     func() time.Time

	tasks    []models.Task
	visible  []int // indexes into tasks matching the search query
	selected int   // index into visible

	currentPage  int
	tasksPerPage int

	search    textinput.Model
	searching bool

	message string
	err     error
}

// NewBoardModel creates a board backed by actions.
func NewBoardModel(actions BoardActions, now func() time.Time) BoardModel {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title, tag or status"
	search.CharLimit = 100
	search.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	search.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	if now == nil {
		now = time.Now
	}
	return BoardModel{
		actions:      actions,
		now:          now,
		tasksPerPage: 10,
		search:       search,
	}
}

func (m BoardModel) Init() tea.Cmd {
	return m.load()
}

func (m BoardModel) load() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.actions.Tasks()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m BoardModel) setStatus(task models.Task, status models.Status) tea.Cmd {
	return func() tea.Msg {
		err := m.actions.SetStatus(task.ID, status)
		return statusChangedMsg{taskID: task.ID, status: status, err: err}
	}
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header, pagination, help and borders
		m.tasksPerPage = max(m.height-12, 3)
		m.clampSelection()
		return m, nil

	case tasksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		m.applyFilter()
		return m, nil

	case statusChangedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.message = fmt.Sprintf("Task #%d is now %s", msg.taskID, msg.status)
		return m, m.load()

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleBoardKeys(msg)
	}
	return m, nil
}

func (m BoardModel) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if msg.String() == "esc" && m.search.Value() != "" {
			m.search.SetValue("")
			m.applyFilter()
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		m.clampSelection()

	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		m.clampSelection()

	case "left", "h":
		if m.currentPage > 0 {
			m.currentPage--
			m.selected = m.currentPage * m.tasksPerPage
		}

	case "right", "l":
		if m.currentPage < m.pageCount()-1 {
			m.currentPage++
			m.selected = m.currentPage * m.tasksPerPage
		}

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "d":
		if task, ok := m.Selected(); ok && task.Status != models.StatusDone {
			return m, m.setStatus(task, models.StatusDone)
		}

	case "p":
		if task, ok := m.Selected(); ok {
			next := models.StatusInProgress
			if task.Status == models.StatusInProgress {
				next = models.StatusPaused
			}
			return m, m.setStatus(task, next)
		}
	}
	return m, nil
}

func (m BoardModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyFilter()
		return m, nil

	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the visible tasks from the search query.
func (m *BoardModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	m.visible = nil
	for i, task := range m.tasks {
		if query == "" || matchesQuery(task, query) {
			m.visible = append(m.visible, i)
		}
	}
	m.clampSelection()
}

func matchesQuery(task models.Task, query string) bool {
	if strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(task.Status.String(), query) {
		return true
	}
	for _, tag := range task.Tags {
		if strings.Contains(strings.ToLower(tag.Name), query) {
			return true
		}
	}
	return false
}

func (m *BoardModel) clampSelection() {
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.currentPage = m.selected / m.tasksPerPage
}

func (m BoardModel) pageCount() int {
	return (len(m.visible) + m.tasksPerPage - 1) / m.tasksPerPage
}

// Selected returns the highlighted task.
func (m BoardModel) Selected() (models.Task, bool) {
	if len(m.visible) == 0 {
		return models.Task{}, false
	}
	return m.tasks[m.visible[m.selected]], true
}

// View renders the TUI
func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	var bottom string
	if m.searching {
		bottom = m.search.View()
	} else {
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderMessage(),
		bottom,
	)
}

func (m BoardModel) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true)
		b.WriteString(emptyStyle.Render("No tasks found"))
	} else {
		titleWidth := max(width-idWidth-statusWidth-priorityWidth-dueWidth-12, 12)
		now := m.now()

		start := m.currentPage * m.tasksPerPage
		end := min(start+m.tasksPerPage, len(m.visible))
		for i := start; i < end; i++ {
			row := TaskRow(m.tasks[m.visible[i]], titleWidth, now)
			if i == m.selected {
				selectedStyle := lipgloss.NewStyle().
					Bold(true).
					Background(lipgloss.Color(ColorAccentMain))
				b.WriteString(selectedStyle.Render(">" + row))
			} else {
				b.WriteString(" " + row)
			}
			b.WriteString("\n")
		}

		if pages := m.pageCount(); pages > 1 {
			pageStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorHelpText)).
				Align(lipgloss.Center).
				Width(width - 2).
				MarginTop(1)
			b.WriteString(pageStyle.Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, pages, len(m.visible))))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m BoardModel) renderTaskDetails(width int) string {
	var body string
	if task, ok := m.Selected(); ok {
		body = TaskDetail(task, m.now())
	} else {
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width - 2).
			Render("Select a task to view details")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(body)
}

func (m BoardModel) renderMessage() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error())
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.message)
}

func (m BoardModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/↓ nav · ←/→ page · / search · d done · p pause/resume · q/esc quit")
}
