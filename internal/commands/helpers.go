package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
	"taskdeck/internal/tasks"
	"taskdeck/internal/views"
)

// printNotifier writes operation notifications to the command's
// output stream, honoring quiet mode.
type printNotifier struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

func (n printNotifier) Success(msg string) {
	if !n.quiet {
		fmt.Fprintln(n.out, msg)
	}
}

func (n printNotifier) Error(msg string) {
	fmt.Fprintf(n.errOut, "error: %s\n", msg)
}

// reportError prints err and maps it to an exit code: local
// validation and lookup failures are user errors, session problems
// are auth errors, everything else is the store's fault.
func reportError(errOut io.Writer, err error) int {
	var validation *service.ValidationError
	var notFound *service.NotFoundError
	var session *service.AuthSessionError
	switch {
	case errors.As(err, &validation):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &notFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &session):
		fmt.Fprintf(errOut, "error: %v (run: taskdeck login)\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// openOps resolves the session, builds a cache and operations layer
// for it, and performs the initial fetch. Command invocations are one
// session each, so the cache lives for the length of the command.
func openOps(ctx context.Context, cfg *config.Config, store service.Store, out, errOut io.Writer) (*tasks.Ops, error) {
	sess, err := store.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	logger := logging.New(errOut, cfg.Debug)
	notify := printNotifier{out: out, errOut: errOut, quiet: cfg.Quiet}
	ops := tasks.NewOps(store, tasks.NewCache(), sess.UserID, notify, logger)
	if err := ops.FetchAll(ctx); err != nil {
		return nil, err
	}
	return ops, nil
}

// resolveByNumber maps a 1-based position in the given view to the
// task itself. The view must match what the listing command printed.
func resolveByNumber(view []service.Task, num int) (service.Task, error) {
	if num < 1 || num > len(view) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return view[num-1], nil
}

// selectView returns the incomplete or completed projection of the
// current snapshot, matching the numbering of `list` or `completed`.
func selectView(ops *tasks.Ops, completed bool) []service.Task {
	snap := ops.Cache().Snapshot()
	if completed {
		return views.Completed(snap)
	}
	return views.Incomplete(snap)
}
