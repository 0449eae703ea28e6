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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List open tasks
  taskdeck list [--sort none|date|priority] [--desc] [--long]
  taskdeck completed [--long]                        List completed tasks
  taskdeck add [--desc <text>] [--priority low|medium|high] [--due YYYY-MM-DD] <title...>
  taskdeck edit [--done] [--title <t>] [--desc <d>] [--priority <p>] [--due YYYY-MM-DD | --clear-due] <n>
  taskdeck done <n>                                  Mark task n completed
  taskdeck undo <n>                                  Mark completed task n as incomplete
  taskdeck rm [--done] <n>                           Delete task n
  taskdeck calendar [--day YYYY-MM-DD] [YYYY-MM]     Show a month of due dates
  taskdeck ui                                        Interactive terminal UI
  taskdeck login <email>
  taskdeck signup <email>
  taskdeck logout
  taskdeck help
  taskdeck version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
