package commands_test

import (
	"context"
	"strings"
	"testing"

	"taskdeck/internal/commands"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// Tests for login command
func TestLoginCommand(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.LoginCmd{Stdin: strings.NewReader("hunter2\n")}
	stdout, stderr, code := runCommand(t, cmd, store, []string{"a@b.c"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "password: ") {
		t.Errorf("expected password prompt on stderr, got %q", stderr)
	}
	if stdout != "signed in as a@b.c\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestLoginCommand_Quiet(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.LoginCmd{Stdin: strings.NewReader("hunter2\n")}
	stdout, _, code := runCommand(t, cmd, store, []string{"a@b.c"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestLoginCommand_NoEmail(t *testing.T) {
	cmd := &commands.LoginCmd{Stdin: strings.NewReader("hunter2\n")}
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeStore(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: email required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestLoginCommand_InvalidEmail(t *testing.T) {
	cmd := &commands.LoginCmd{Stdin: strings.NewReader("hunter2\n")}
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeStore(), []string{"nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid email: nope\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestLoginCommand_EmptyPassword(t *testing.T) {
	cmd := &commands.LoginCmd{Stdin: strings.NewReader("\n")}
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeStore(), []string{"a@b.c"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "password required") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SignInErr = &service.RemoteError{Status: 400, Message: "Invalid login credentials"}

	cmd := &commands.LoginCmd{Stdin: strings.NewReader("wrong\n")}
	_, stderr, code := runCommand(t, cmd, store, []string{"a@b.c"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "Invalid login credentials") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for signup command
func TestSignupCommand(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.SignupCmd{Stdin: strings.NewReader("hunter2\n")}
	stdout, _, code := runCommand(t, cmd, store, []string{"new@b.c"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "signed up as new@b.c\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestSignupCommand_Taken(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SignUpErr = &service.RemoteError{Status: 422, Message: "User already registered"}

	cmd := &commands.SignupCmd{Stdin: strings.NewReader("hunter2\n")}
	_, stderr, code := runCommand(t, cmd, store, []string{"taken@b.c"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "User already registered") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for logout command
func TestLogoutCommand(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")

	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
	if _, err := store.CurrentSession(context.Background()); err == nil {
		t.Error("expected session cleared")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommand(t, cmd, testutil.NewFakeStore(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestLogoutCommand_RemoteSessionAlreadyGone(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")
	store.SignOutErr = &service.RemoteError{Status: 404, Message: "session_not_found"}
	store.SignOutSessionMissing = true

	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestLogoutCommand_RemoteFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SetSession("owner-1", "a@b.c")
	store.SignOutErr = &service.RemoteError{Status: 500, Message: "boom"}

	cmd := &commands.LogoutCmd{}
	_, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "boom") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
