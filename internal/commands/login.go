package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&SignupCmd{})
}

// LoginCmd signs in with email and password. The password is read
// from standard input so it never lands in shell history.
type LoginCmd struct {
	// Stdin overrides the password source (for testing).
	Stdin io.Reader
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in to the task store" }
func (c *LoginCmd) Usage() string     { return "taskdeck login <email>" }
func (c *LoginCmd) NeedsStore() bool  { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	return runCredentialGrant(ctx, store, args, c.Stdin, store.SignIn, "signed in as", cfg, out, errOut)
}

// SignupCmd registers a new account. The store is configured without
// email confirmation, so a successful sign-up leaves the user signed
// in.
type SignupCmd struct {
	// Stdin overrides the password source (for testing).
	Stdin io.Reader
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string     { return "taskdeck signup <email>" }
func (c *SignupCmd) NeedsStore() bool  { return true }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	return runCredentialGrant(ctx, store, args, c.Stdin, store.SignUp, "signed up as", cfg, out, errOut)
}

type grantFunc func(ctx context.Context, email, password string) (service.Session, error)

func runCredentialGrant(ctx context.Context, store service.Store, args []string, stdin io.Reader, grant grantFunc, verb string, cfg *config.Config, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	email := strings.TrimSpace(args[0])
	if email == "" || !strings.Contains(email, "@") {
		fmt.Fprintf(errOut, "error: invalid email: %s\n", args[0])
		return exitcode.UserError
	}

	password, err := readPassword(stdin, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sess, err := grant(ctx, email, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "%s %s\n", verb, sess.Email)
	}
	return exitcode.Success
}

func readPassword(stdin io.Reader, errOut io.Writer) (string, error) {
	if stdin == nil {
		stdin = os.Stdin
	}
	fmt.Fprint(errOut, "password: ")
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("password required")
	}
	password := scanner.Text()
	if password == "" {
		return "", fmt.Errorf("password required")
	}
	return password, nil
}
