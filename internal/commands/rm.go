package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd deletes a task. By default the number addresses the open
// list; --done addresses the completed list instead.
type RmCmd struct {
	fromDone bool
}

// SetFromDone targets the completed list (for testing).
func (c *RmCmd) SetFromDone(v bool) {
	c.fromDone = v
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskdeck rm [--done] <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.fromDone, "done", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
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
	if err := ops.Delete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
