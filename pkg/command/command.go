// Package command runs external programs on behalf of installation steps.
package command

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/style"
)

// Spec describes one invocation
type Spec struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one
	Dir string
	// Stdin feeds the process. StdinPath is opened only when the command
	// actually runs.
	Stdin     io.Reader
	StdinPath string
}

// Parse splits a whitespace separated command line. Quoting is not
// supported.
func Parse(cmdline string) (Spec, error) {
	parts := strings.Fields(cmdline)
	if len(parts) == 0 {
		return Spec{}, errors.Newf(errors.ErrInvalidInput, "no program specified in %q", cmdline)
	}
	return Spec{Name: parts[0], Args: parts[1:]}, nil
}

// String renders the command line
func (s Spec) String() string {
	return strings.Join(append([]string{s.Name}, s.Args...), " ")
}

// Describe returns the status line text for running s
func Describe(s Spec) string {
	msg := "Running " + style.Command(s.String())
	if s.Dir != "" {
		msg += " in " + style.Path(s.Dir)
	}
	return msg
}

// Runner spawns processes unless it is in dry-run mode
type Runner struct {
	dryRun   bool
	lookPath func(string) (string, error)
	logger   zerolog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithLookPath replaces the executable lookup
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) {
		r.lookPath = fn
	}
}

// NewRunner returns a Runner
func NewRunner(dryRun bool, opts ...Option) *Runner {
	r := &Runner{
		dryRun:   dryRun,
		lookPath: exec.LookPath,
		logger:   logging.GetLogger("command"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether name can be executed
func (r *Runner) Available(name string) bool {
	_, err := r.lookPath(name)
	return err == nil
}

// Run executes spec and waits for it. The executable must exist even in dry
// runs; nothing is spawned when dry. Stdout is logged at debug level and
// every stderr line at warn level.
func (r *Runner) Run(ctx context.Context, spec Spec) error {
	path, err := r.lookPath(spec.Name)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExternalCommand, "executable %s is unavailable", spec.Name).
			WithDetail("command", spec.String())
	}

	if r.dryRun {
		r.logger.Debug().Str("command", spec.String()).Str("dir", spec.Dir).Msg("Dry run, not executing")
		return nil
	}

	logging.LogCommand(path, spec.Args)

	cmd := exec.CommandContext(ctx, path, spec.Args...)
	cmd.Dir = spec.Dir

	switch {
	case spec.Stdin != nil:
		cmd.Stdin = spec.Stdin
	case spec.StdinPath != "":
		f, err := os.Open(spec.StdinPath)
		if err != nil {
			return errors.Wrap(err, errors.ErrSourceNotFound, "failed to open command input").
				WithDetail("command", spec.String()).
				WithDetail("stdin", spec.StdinPath)
		}
		defer f.Close()
		cmd.Stdin = f
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if stdout.Len() > 0 {
		r.logger.Debug().Str("command", spec.Name).Msg(strings.TrimRight(stdout.String(), "\n"))
	}
	scanner := bufio.NewScanner(&stderr)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			r.logger.Warn().Str("command", spec.Name).Msg(line)
		}
	}

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return errors.Wrap(runErr, errors.ErrExternalCommand, fmt.Sprintf("%s failed", spec.Name)).
			WithDetail("command", spec.String()).
			WithDetail("exit_code", exitCode)
	}
	return nil
}
