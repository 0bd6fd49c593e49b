package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/parser"
	"github.com/balkashynov/studio/internal/timefmt"
)

const (
	idWidth       = 5
	statusWidth   = 14
	priorityWidth = 8
	dueWidth      = 10
)

var statusIcons = map[models.Status]string{
	models.StatusTodo:       "○",
	models.StatusInProgress: "▶",
	models.StatusPaused:     "⏸",
	models.StatusDone:       "✓",
	models.StatusArchived:   "▣",
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// cell pads text to width before styling so ANSI codes do not skew columns.
func cell(text string, width int, color string) string {
	style := lipgloss.NewStyle().Width(width)
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return style.Render(truncate(text, width))
}

// StatusLabel renders a status with its icon.
func StatusLabel(s models.Status) string {
	return statusIcons[s] + " " + s.String()
}

// DueLabel is the short form of a due date used in tables.
func DueLabel(due, now time.Time) string {
	now = timefmt.Naive(now)
	today, _ := timefmt.DayBounds(now)
	dueDay, _ := timefmt.DayBounds(due)
	days := int(dueDay.Sub(today).Hours() / 24)

	switch {
	case due.Before(now):
		return "OVERDUE"
	case days == 0:
		return "TODAY"
	case days == 1:
		return "TOMORROW"
	case days <= 7:
		return fmt.Sprintf("%dd", days)
	default:
		return due.Format("2006-01-02")
	}
}

func dueColor(label string) string {
	switch label {
	case "OVERDUE":
		return ColorError
	case "TODAY", "TOMORROW":
		return ColorWarning
	}
	if strings.HasSuffix(label, "d") {
		return ColorAccentBright
	}
	return ""
}

// TagBadge renders a tag name in its own color.
func TagBadge(tag models.Tag) string {
	return lipgloss.NewStyle().Foreground(TagColor(tag.Color)).Render("#" + tag.Name)
}

func tagBadges(tags []models.Tag) string {
	badges := make([]string, len(tags))
	for i, tag := range tags {
		badges[i] = TagBadge(tag)
	}
	return strings.Join(badges, " ")
}

// TaskRow renders one task as a table line of the given title width.
func TaskRow(task models.Task, titleWidth int, now time.Time) string {
	due := DueLabel(task.DueDate, now)
	cols := []string{
		cell(fmt.Sprintf("#%d", task.ID), idWidth, ColorDisabledText),
		cell(task.Title, titleWidth, ColorPrimaryText),
		cell(StatusLabel(task.Status), statusWidth, statusColors[task.Status]),
		cell(task.Priority.String(), priorityWidth, priorityColors[task.Priority]),
		cell(due, dueWidth, dueColor(due)),
	}
	row := strings.Join(cols, " ")
	if len(task.Tags) > 0 {
		row += " " + tagBadges(task.Tags)
	}
	return row
}

// TaskTable renders tasks as a table for non-interactive output.
func TaskTable(tasks []models.Task, now time.Time) string {
	const titleWidth = 40

	var b strings.Builder
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	header := strings.Join([]string{
		cell("ID", idWidth, ""),
		cell("TITLE", titleWidth, ""),
		cell("STATUS", statusWidth, ""),
		cell("PRIORITY", priorityWidth, ""),
		cell("DUE", dueWidth, ""),
		"TAGS",
	}, " ")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, task := range tasks {
		b.WriteString(TaskRow(task, titleWidth, now))
		b.WriteString("\n")
	}
	return b.String()
}

// TaskDetail renders every field of a task.
func TaskDetail(task models.Task, now time.Time) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	line := func(name, value string) {
		b.WriteString(label.Render(name + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)))
	b.WriteString("\n\n")

	line("Status", lipgloss.NewStyle().Foreground(lipgloss.Color(statusColors[task.Status])).Bold(true).Render(StatusLabel(task.Status)))
	line("Priority", lipgloss.NewStyle().Foreground(lipgloss.Color(priorityColors[task.Priority])).Render(task.Priority.String()))
	line("Due", parser.FormatDueDate(task.DueDate, now))
	if len(task.Tags) > 0 {
		line("Tags", tagBadges(task.Tags))
	}
	line("Created", task.CreatedAt.Format("2006-01-02 15:04"))
	line("Updated", task.UpdatedAt.Format("2006-01-02 15:04"))

	if task.Description != nil && *task.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(ColorSecondaryText)).Render(*task.Description))
		b.WriteString("\n")
	}
	return b.String()
}

// TagTable renders tags with their ids and colors.
func TagTable(tags []models.Tag) string {
	var b strings.Builder
	for _, tag := range tags {
		b.WriteString(cell(fmt.Sprintf("#%d", tag.ID), idWidth, ColorDisabledText))
		b.WriteString(" ")
		b.WriteString(TagBadge(tag))
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render(tag.Color))
		b.WriteString("\n")
	}
	return b.String()
}
