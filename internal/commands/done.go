package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd marks an open task completed. The number addresses the
// task's position in `taskdeck list` output.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskdeck done <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, store, args, false, out, errOut)
}

// UndoCmd marks a completed task open again. The number addresses the
// task's position in `taskdeck completed` output.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a completed task as incomplete" }
func (c *UndoCmd) Usage() string     { return "taskdeck undo <n>" }
func (c *UndoCmd) NeedsStore() bool  { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, store, args, true, out, errOut)
}

// runToggle is the shared implementation for done and undo.
func runToggle(ctx context.Context, cfg *config.Config, store service.Store, args []string, fromCompleted bool, out, errOut io.Writer) int {
	num, code := parseTaskNumber(args, errOut)
	if code != exitcode.Success {
		return code
	}

	ops, err := openOps(ctx, cfg, store, out, errOut)
	if err != nil {
		return reportError(errOut, err)
	}

	task, err := resolveByNumber(selectView(ops, fromCompleted), num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if _, err := ops.ToggleComplete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}

// parseTaskNumber extracts the single 1-based task number argument.
func parseTaskNumber(args []string, errOut io.Writer) (int, int) {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number required")
		return 0, exitcode.UserError
	}
	num, err := strconv.Atoi(args[0])
	if err != nil || num < 1 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return 0, exitcode.UserError
	}
	return num, exitcode.Success
}
