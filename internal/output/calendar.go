package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/dates"
	"taskdeck/internal/service"
	"taskdeck/internal/views"
)

// Cell markers for the month grid.
const (
	markOverdue    = "!"
	markOpen       = "*"
	markAllDone    = "+"
	markToday      = ">"
	markEmptyDay   = " "
	cellPlaceholder = "    "
)

// RenderMonth writes a month grid for the month containing ref, with
// one marker per day, followed by a summary line per day that has
// tasks.
func RenderMonth(w io.Writer, ref dates.Date, tasks []service.Task, today dates.Date) {
	fmt.Fprintf(w, "%s %d\n", ref.Month, ref.Year)
	fmt.Fprintln(w, " Sun Mon Tue Wed Thu Fri Sat")

	cells := ref.MonthGrid()
	for i, d := range cells {
		if d.IsZero() {
			fmt.Fprint(w, cellPlaceholder)
		} else {
			fmt.Fprintf(w, "%s%2d%s", dayPrefix(d, today), d.Day, dayMarker(tasks, d, today))
		}
		if (i+1)%7 == 0 {
			fmt.Fprintln(w)
		}
	}
	if len(cells)%7 != 0 {
		fmt.Fprintln(w)
	}

	var lines []string
	for _, d := range cells {
		if d.IsZero() {
			continue
		}
		stats := views.StatsForDate(tasks, d, today)
		if stats.Total == 0 {
			continue
		}
		line := fmt.Sprintf("  %s: %d task%s (%d done, %d open)",
			d, stats.Total, plural(stats.Total), stats.Completed, stats.Incomplete)
		if stats.HasOverdue {
			line += " overdue"
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, strings.Join(lines, "\n"))
		fmt.Fprintln(w)
	}
}

func dayPrefix(d, today dates.Date) string {
	if d == today {
		return markToday
	}
	return markEmptyDay
}

func dayMarker(tasks []service.Task, d, today dates.Date) string {
	stats := views.StatsForDate(tasks, d, today)
	switch {
	case stats.HasOverdue:
		return markOverdue
	case stats.Incomplete > 0:
		return markOpen
	case stats.Total > 0:
		return markAllDone
	default:
		return markEmptyDay
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
