package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/dates"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/views"
)

func init() {
	Register(&ListCmd{})
	Register(&CompletedCmd{})
}

// ListCmd implements the list command: the incomplete tasks, in fetch
// order or client-side sorted.
type ListCmd struct {
	sortMode string
	desc     bool
	long     bool
}

// SetSort sets the sort parameters (for testing).
func (c *ListCmd) SetSort(mode string, desc bool) {
	c.sortMode = mode
	c.desc = desc
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List open tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--sort none|date|priority] [--desc] [--long]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.sortMode, "sort", "none", "")
	fs.BoolVar(&c.desc, "desc", false, "")
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	mode := views.SortMode(c.sortMode)
	if mode != views.SortNone && mode != views.SortDate && mode != views.SortPriority {
		fmt.Fprintf(errOut, "error: invalid sort mode: %s\n", c.sortMode)
		return exitcode.UserError
	}
	dir := views.Asc
	if c.desc {
		dir = views.Desc
	}

	ops, err := openOps(ctx, cfg, store, out, errOut)
	if err != nil {
		return reportError(errOut, err)
	}

	open := views.Sort(views.Incomplete(ops.Cache().Snapshot()), mode, dir)
	if len(open) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	today := dates.Today()
	for i, t := range open {
		output.FormatTask(out, i+1, t, today)
		if c.long {
			output.FormatTaskDetail(out, t)
		}
	}
	return exitcode.Success
}

// CompletedCmd lists finished tasks.
type CompletedCmd struct {
	long bool
}

func (c *CompletedCmd) Name() string      { return "completed" }
func (c *CompletedCmd) Aliases() []string { return []string{"done-list"} }
func (c *CompletedCmd) Synopsis() string  { return "List completed tasks" }
func (c *CompletedCmd) Usage() string     { return "taskdeck completed [--long]" }
func (c *CompletedCmd) NeedsStore() bool  { return true }

func (c *CompletedCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *CompletedCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	ops, err := openOps(ctx, cfg, store, out, errOut)
	if err != nil {
		return reportError(errOut, err)
	}

	finished := views.Completed(ops.Cache().Snapshot())
	if len(finished) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no completed tasks")
		}
		return exitcode.Success
	}

	today := dates.Today()
	for i, t := range finished {
		output.FormatTask(out, i+1, t, today)
		if c.long {
			output.FormatTaskDetail(out, t)
		}
	}
	return exitcode.Success
}
