package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/dates"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    string
	due         string
}

// SetFields sets the optional fields (for testing).
func (c *AddCmd) SetFields(description, priority, due string) {
	c.description = description
	c.priority = priority
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [--desc <text>] [--priority low|medium|high] [--due YYYY-MM-DD] <title...>"
}
func (c *AddCmd) NeedsStore() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	priority := service.Priority(c.priority)
	if priority != "" && !priority.Valid() {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	var due dates.Date
	if c.due != "" {
		d, err := dates.Parse(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		due = d
	}

	ops, err := openOps(ctx, cfg, store, out, errOut)
	if err != nil {
		return reportError(errOut, err)
	}
	if _, err := ops.Add(ctx, title, c.description, priority, due); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
