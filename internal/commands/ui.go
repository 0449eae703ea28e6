package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
	"taskdeck/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd launches the interactive terminal UI.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Interactive terminal UI" }
func (c *UICmd) Usage() string     { return "taskdeck ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	sess, err := store.CurrentSession(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	logger := logging.New(errOut, cfg.Debug)
	if err := ui.Run(ctx, cfg, store, sess, logger); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
