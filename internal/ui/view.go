package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/dates"
	"taskdeck/internal/service"
	"taskdeck/internal/views"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle      = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	priorityStyle = map[service.Priority]lipgloss.Style{
		service.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		service.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		service.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
	toastOK  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	toastBad = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	helpLine = lipgloss.NewStyle().Faint(true)
)

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskdeck"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading tasks...\n")
	case m.fetchErr != nil && len(m.snapshot) == 0:
		b.WriteString(overdueStyle.Render("error: "+m.fetchErr.Error()) + "\n")
	case m.tab == tabCalendar:
		b.WriteString(m.renderCalendar())
	default:
		b.WriteString(m.renderTaskList())
	}

	switch {
	case m.adding:
		b.WriteString("\nnew task: " + m.input + "█\n")
	case m.editID != "":
		b.WriteString("\nedit title: " + m.input + "█\n")
	}

	if m.hasToast {
		b.WriteString("\n")
		if m.toast.isErr {
			b.WriteString(toastBad.Render(m.toast.text))
		} else {
			b.WriteString(toastOK.Render(m.toast.text))
		}
		b.WriteString("\n")
	}

	if m.sidebar {
		b.WriteString("\n" + m.renderSidebar())
	}
	b.WriteString("\n" + helpLine.Render(m.helpText()))
	return b.String()
}

func (m *model) renderTabs() string {
	names := []string{"1 tasks", "2 completed", "3 calendar"}
	parts := make([]string, len(names))
	for i, name := range names {
		if tab(i) == m.tab {
			parts[i] = activeTab.Render(name)
		} else {
			parts[i] = tabStyle.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

func (m *model) renderTaskList() string {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		if m.tab == tabCompleted {
			return "no completed tasks\n"
		}
		return "No tasks yet. Add one to get started!\n"
	}

	var b strings.Builder
	if m.tab == tabList && m.sortMode != views.SortNone {
		fmt.Fprintf(&b, "sort: %s %s\n\n", m.sortMode, m.sortDir)
	}
	today := dates.Today()
	for i, t := range visible {
		line := m.renderTaskLine(t, today)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *model) renderTaskLine(t service.Task, today dates.Date) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	p := m.displayPriority(t)
	parts := []string{box, priorityStyle[p].Render(string(p)), t.Title}
	if !t.DueDate.IsZero() {
		due := "due " + t.DueDate.String()
		if views.IsOverdue(t, today) {
			due = overdueStyle.Render(due + " (overdue)")
		}
		parts = append(parts, due)
	}
	line := strings.Join(parts, "  ")
	if t.Completed {
		return doneStyle.Render(line)
	}
	return line
}

func (m *model) renderCalendar() string {
	var b strings.Builder
	today := dates.Today()
	fmt.Fprintf(&b, "%s %d\n", m.month.Month, m.month.Year)
	b.WriteString(" Sun Mon Tue Wed Thu Fri Sat\n")

	for i, d := range m.month.MonthGrid() {
		if d.IsZero() {
			b.WriteString("    ")
		} else {
			cell := fmt.Sprintf("%3d%s", d.Day, m.dayMarker(d, today))
			if d == m.day {
				cell = cursorStyle.Render(cell)
			} else if d == today {
				cell = titleStyle.Render(cell)
			}
			b.WriteString(cell)
		}
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.renderDayDetail(today))
	return b.String()
}

// renderDayDetail is the day view: the selected day's bucket with its
// aggregate counts.
func (m *model) renderDayDetail(today dates.Date) string {
	bucket := views.ForDate(m.snapshot, m.day)
	stats := views.StatsForDate(m.snapshot, m.day, today)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s · %d total, %d done, %d open", m.day, stats.Total, stats.Completed, stats.Incomplete)
	if stats.HasOverdue {
		b.WriteString(" " + overdueStyle.Render("(overdue)"))
	}
	b.WriteString("\n")
	for _, t := range bucket {
		b.WriteString("  " + m.renderTaskLine(t, today) + "\n")
	}
	return b.String()
}

func (m *model) dayMarker(d, today dates.Date) string {
	stats := views.StatsForDate(m.snapshot, d, today)
	switch {
	case stats.HasOverdue:
		return overdueStyle.Render("!")
	case stats.Incomplete > 0:
		return "*"
	case stats.Total > 0:
		return "+"
	default:
		return " "
	}
}

func (m *model) renderSidebar() string {
	return fmt.Sprintf("%s · %d open · %d done", m.sess.Email, len(m.open), len(m.done))
}

func (m *model) helpText() string {
	if m.tab == tabCalendar {
		return "h/l month · arrows day · t today · tab views · b sidebar · q quit"
	}
	return "j/k move · space toggle · a add · e edit · p priority · d delete · s sort · o order · r refresh · b sidebar · q quit"
}
