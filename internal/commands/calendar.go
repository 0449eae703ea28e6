package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/dates"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/views"
)

func init() {
	Register(&CalendarCmd{})
}

// CalendarCmd renders a month of due dates, with per-day counts and
// an overdue marker. An optional YYYY-MM argument selects the month;
// the default is the current one.
type CalendarCmd struct {
	day string
}

// SetDay restricts output to one day's bucket (for testing and
// scripting).
func (c *CalendarCmd) SetDay(day string) {
	c.day = day
}

func (c *CalendarCmd) Name() string      { return "calendar" }
func (c *CalendarCmd) Aliases() []string { return []string{"cal"} }
func (c *CalendarCmd) Synopsis() string  { return "Show a month of due dates" }
func (c *CalendarCmd) Usage() string     { return "taskdeck calendar [--day YYYY-MM-DD] [YYYY-MM]" }
func (c *CalendarCmd) NeedsStore() bool  { return true }

func (c *CalendarCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.day, "day", "", "")
}

func (c *CalendarCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	today := dates.Today()

	ref := today
	if len(args) > 1 {
		fmt.Fprintln(errOut, "error: at most one month argument")
		return exitcode.UserError
	}
	if len(args) == 1 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid month %q (want YYYY-MM)\n", args[0])
			return exitcode.UserError
		}
		ref = dates.Date{Year: t.Year(), Month: t.Month(), Day: 1}
	}

	ops, err := openOps(ctx, cfg, store, out, errOut)
	if err != nil {
		return reportError(errOut, err)
	}
	snap := ops.Cache().Snapshot()

	// Day mode: print the bucket for one date instead of the grid.
	if c.day != "" {
		d, err := dates.Parse(c.day)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		bucket := views.ForDate(snap, d)
		if len(bucket) == 0 {
			if !cfg.Quiet {
				fmt.Fprintf(out, "no tasks due %s\n", d)
			}
			return exitcode.Success
		}
		output.FormatSectionHeader(out, d.String())
		for i, t := range bucket {
			output.FormatTask(out, i+1, t, today)
		}
		return exitcode.Success
	}

	output.RenderMonth(out, ref, snap, today)
	return exitcode.Success
}
