// Package sysexec runs external commands, optionally elevated through sudo.
package sysexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
)

// Command describes a single process invocation.
type Command struct {
	Name     string
	Args     []string
	Elevated bool
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs commands. Runner is the production implementation.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

type Option func(*Runner)

// WithCredentials sets the source consulted for every elevated invocation.
func WithCredentials(src CredentialSource) Option {
	return func(r *Runner) {
		r.credentials = src
	}
}

// WithSudo overrides the sudo binary.
func WithSudo(path string) Option {
	return func(r *Runner) {
		r.sudo = path
	}
}

// WithRootCheck overrides how the runner decides it already has privileges.
func WithRootCheck(isRoot func() bool) Option {
	return func(r *Runner) {
		r.isRoot = isRoot
	}
}

type Runner struct {
	credentials CredentialSource
	sudo        string
	isRoot      func() bool
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		sudo:   "sudo",
		isRoot: func() bool { return os.Geteuid() == 0 },
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes cmd and waits for it. A non-zero exit status is reported in
// Result.ExitCode with a nil error; an error means the process could not be
// started or was killed by ctx.
func (r *Runner) Run(ctx context.Context, cmd Command) (Result, error) {
	errFactory := errors.New()

	name, args := cmd.Name, cmd.Args
	var secret []byte

	if cmd.Elevated && !r.isRoot() {
		cred, err := r.credential(ctx)
		if err != nil {
			return Result{}, err
		}

		if cred == nil {
			// No credential: let sudo fail instead of prompting.
			args = append([]string{"-n", "--", name}, args...)
		} else {
			args = append([]string{"-S", "-p", "", "--", name}, args...)
			secret = make([]byte, len(cred)+1)
			copy(secret, cred)
			secret[len(cred)] = '\n'
			cred.Zero()
			defer Credential(secret).Zero()
		}
		name = r.sudo
	}

	logger.Debug().
		Str("command", cmd.String()).
		Bool("elevated", cmd.Elevated).
		Msg("Running command")

	proc := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr
	if secret != nil {
		proc.Stdin = bytes.NewReader(secret)
	}

	err := proc.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}

		res.ExitCode = -1
		return res, errFactory.Wrap(errors.ErrCommandFailed,
			fmt.Errorf("%s: %w", cmd.Name, err))
	}

	return res, nil
}

func (r *Runner) credential(ctx context.Context) (Credential, error) {
	if r.credentials == nil {
		return nil, nil
	}

	cred, err := r.credentials.Credential(ctx)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrCredentialUnavailable, err)
	}

	return cred, nil
}

// LookPath reports the absolute path of an executable found in PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
