// Package job runs named installation steps and reports their outcome on a
// single status line each.
package job

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/style"
)

// Action is the deferred body of a job
type Action func() error

// Job is a named unit of work
type Job struct {
	Description string
	Action      Action
}

// Runner executes jobs one at a time and tallies their outcomes.
// A Runner is not safe for concurrent use.
type Runner struct {
	out       io.Writer
	logger    zerolog.Logger
	succeeded int
	failed    int
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger replaces the component logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner returns a runner printing status lines to w (stdout when nil)
func NewRunner(w io.Writer, opts ...Option) *Runner {
	if w == nil {
		w = os.Stdout
	}
	r := &Runner{
		out:    w,
		logger: logging.GetLogger("job"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prints "description..." before the action starts and "done" or
// "failed" on the same line once it ends. Errors and panics raised by the
// action are logged and counted, never propagated.
func (r *Runner) Run(description string, action Action) bool {
	fmt.Fprintf(r.out, "%s...", description)

	err := r.execute(action)
	if err != nil {
		r.failed++
		fmt.Fprintf(r.out, " %s\n", style.Failed())
		r.logFailure(description, err)
		return false
	}

	r.succeeded++
	fmt.Fprintf(r.out, " %s\n", style.Done())
	return true
}

// RunJob runs j
func (r *Runner) RunJob(j Job) bool {
	return r.Run(j.Description, j.Action)
}

func (r *Runner) execute(action Action) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf(errors.ErrInternal, "panic: %v", rec)
		}
	}()
	if action == nil {
		return nil
	}
	return action()
}

func (r *Runner) logFailure(description string, err error) {
	event := r.logger.Error().
		Err(err).
		Str("job", description).
		Str("code", string(errors.GetErrorCode(err)))
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		event = event.Fields(details)
	}
	event.Msg("Job failed")
}

// Succeeded returns the number of jobs that completed without error
func (r *Runner) Succeeded() int { return r.succeeded }

// Failed returns the number of jobs that reported failure
func (r *Runner) Failed() int { return r.failed }

// Total returns the number of jobs run so far
func (r *Runner) Total() int { return r.succeeded + r.failed }
