package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/dates"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd updates a task's title, description, priority or due date.
// The number addresses the open list, or the completed list with
// --done.
type EditCmd struct {
	fromDone  bool
	title     string
	desc      string
	descSet   bool
	priority  string
	due       string
	clearDue  bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [--done] [--title <t>] [--desc <d>] [--priority low|medium|high] [--due YYYY-MM-DD | --clear-due] <n>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.fromDone, "done", false, "")
	fs.StringVar(&c.title, "title", "", "")
	fs.Func("desc", "", func(v string) error {
		c.desc = v
		c.descSet = true
		return nil
	})
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.BoolVar(&c.clearDue, "clear-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	patch, code := c.buildPatch(errOut)
	if code != exitcode.Success {
		return code
	}

	num, code := parseTaskNumber(args, errOut)
	if code != exitcode.Success {
		return code
	}

	ops, err := openOps(ctx, cfg, store, out, errOut)
	if err != nil {
		return reportError(errOut, err)
	}

	task, err := resolveByNumber(selectView(ops, c.fromDone), num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if _, err := ops.Update(ctx, task.ID, patch); err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *EditCmd) buildPatch(errOut io.Writer) (service.TaskPatch, int) {
	var patch service.TaskPatch
	changed := false

	if c.title != "" {
		patch.Title = &c.title
		changed = true
	}
	if c.descSet {
		patch.Description = &c.desc
		changed = true
	}
	if c.priority != "" {
		p := service.Priority(c.priority)
		if !p.Valid() {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return service.TaskPatch{}, exitcode.UserError
		}
		patch.Priority = &p
		changed = true
	}
	if c.due != "" && c.clearDue {
		fmt.Fprintln(errOut, "error: cannot use both --due and --clear-due")
		return service.TaskPatch{}, exitcode.UserError
	}
	if c.due != "" {
		d, err := dates.Parse(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return service.TaskPatch{}, exitcode.UserError
		}
		patch.DueDate = &d
		changed = true
	}
	if c.clearDue {
		patch.DueDate = &dates.Date{}
		changed = true
	}

	if !changed {
		fmt.Fprintln(errOut, "error: nothing to change")
		return service.TaskPatch{}, exitcode.UserError
	}
	return patch, exitcode.Success
}
