package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// run dispatches args with a factory returning the given store. A nil
// store means the factory is nil too.
func run(t *testing.T, store *testutil.FakeStore, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var factory cli.StoreFactory
	if store != nil {
		factory = func(ctx context.Context, cfg *config.Config) (service.Store, error) {
			return store, nil
		}
	}

	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, nil, "frobnicate")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: frobnicate\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, nil, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: --quiet\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "version", "--bogus")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: -bogus\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	_, stderr, code := run(t, nil, "list", "--sort")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "flag needs an argument") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_VersionWithoutStore(t *testing.T) {
	stdout, _, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskdeck 0.1.0\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestDispatcher_NoArgsDispatchesList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")
	stdout, _, code := run(t, store)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestDispatcher_ListThroughFactory(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")
	store.Seed(service.Task{Owner: "owner-1", Title: "Buy milk"})

	stdout, stderr, code := run(t, store, "list", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestDispatcher_Alias(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")

	stdout, _, code := run(t, store, "ls", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestDispatcher_QuietFlag(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")

	stdout, _, code := run(t, store, "list", "--quiet", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestDispatcher_NilFactoryWithoutStoreConfig(t *testing.T) {
	dir := t.TempDir()
	_, stderr, code := run(t, nil, "list", "--config", dir)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	want := fmt.Sprintf("error: store.toml not found in %s\n", dir)
	if stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestDispatcher_FactoryMissingStoreFile(t *testing.T) {
	dir := t.TempDir()
	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return nil, fmt.Errorf("read store.toml: %w", fs.ErrNotExist)
	}

	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := d.Run(context.Background(), []string{"list", "--config", dir}, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	want := fmt.Sprintf("error: store.toml not found in %s\n", dir)
	if errBuf.String() != want {
		t.Errorf("expected %q, got %q", want, errBuf.String())
	}
}

func TestDispatcher_FactoryBackendFailure(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return nil, fmt.Errorf("connection refused")
	}

	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := d.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &outBuf, &errBuf)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(errBuf.String(), "backend error: connection refused") {
		t.Errorf("unexpected stderr: %q", errBuf.String())
	}
}

func TestDispatcher_NotSignedIn(t *testing.T) {
	store := testutil.NewFakeStore()
	_, stderr, code := run(t, store, "list", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "(run: taskdeck login)") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
