// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/dates"
	"taskdeck/internal/service"
	"taskdeck/internal/views"
)

const (
	// SectionSeparator is the separator line for output sections.
	SectionSeparator = "------------"
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [{x| }] {TITLE}{markers}\n"
func FormatTask(w io.Writer, num int, t service.Task, today dates.Date) {
	box := " "
	if t.Completed {
		box = "x"
	}
	var markers strings.Builder
	if t.Priority != service.PriorityMedium {
		fmt.Fprintf(&markers, "  !%s", t.Priority)
	}
	if !t.DueDate.IsZero() {
		fmt.Fprintf(&markers, "  due %s", t.DueDate)
		if views.IsOverdue(t, today) {
			markers.WriteString(" (overdue)")
		}
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", num, box, normalizeTitle(t.Title), markers.String())
}

// FormatTaskDetail writes the description line under a task, indented
// to align with the title.
func FormatTaskDetail(w io.Writer, t service.Task) {
	if t.Description == "" {
		return
	}
	for _, line := range strings.Split(t.Description, "\n") {
		fmt.Fprintf(w, "          %s\n", line)
	}
}

// FormatSectionHeader formats a section header.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, SectionSeparator)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
