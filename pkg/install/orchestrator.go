// Package install sequences the installation steps of the dotfiles
// repository.
//
// The manifest is a fixed, ordered table of steps. Each step carries a
// predicate over the run environment (platform and options); the
// orchestrator evaluates every predicate against one Env, runs the steps
// that apply through a job.Runner and never stops on a failure.
package install

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zyxir/dotinstall/pkg/ahk"
	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/fileops"
	"github.com/zyxir/dotinstall/pkg/fonts"
	"github.com/zyxir/dotinstall/pkg/job"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/manual"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/types"
)

// Env is everything a step can see. It is built once per run.
type Env struct {
	Ctx      context.Context
	Platform types.Platform
	Options  types.RunOptions
	Settings *config.Settings

	FS       types.FS
	Resolver *paths.Resolver
	Files    *fileops.Operator
	Commands *command.Runner
	Fonts    *fonts.Installer
	AHK      *ahk.Installer
}

// Step is one entry of the manifest. Exactly one of Run and Notice is set:
// Run steps go through the job runner, Notice steps print instructions for
// the user.
type Step struct {
	Description string
	When        Predicate
	Run         func(Env) error
	Notice      func(Env) manual.Notice
}

// Summary describes a finished run
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
	Notices   int
	Elapsed   time.Duration
}

// Orchestrator runs a manifest
type Orchestrator struct {
	env     Env
	steps   []Step
	runner  *job.Runner
	printer *manual.Printer
	out     io.Writer
	now     func() time.Time
}

// NewOrchestrator returns an Orchestrator writing to out
func NewOrchestrator(env Env, steps []Step, out io.Writer, printer *manual.Printer) *Orchestrator {
	if printer == nil {
		printer = manual.NewPrinter(out, false)
	}
	return &Orchestrator{
		env:     env,
		steps:   steps,
		runner:  job.NewRunner(out, job.WithLogger(logging.GetLogger("install"))),
		printer: printer,
		out:     out,
		now:     time.Now,
	}
}

// Run executes every applicable step in order and prints the elapsed time
func (o *Orchestrator) Run() Summary {
	logger := logging.GetLogger("install")
	start := o.now()

	var summary Summary
	for _, step := range o.steps {
		if step.When != nil && !step.When(o.env) {
			summary.Skipped++
			continue
		}

		switch {
		case step.Notice != nil:
			if o.printer.Show(step.Notice(o.env)) {
				summary.Notices++
			}
		case step.Run != nil:
			o.runner.RunJob(o.toJob(step))
		}
	}

	summary.Succeeded = o.runner.Succeeded()
	summary.Failed = o.runner.Failed()
	summary.Elapsed = o.now().Sub(start)

	fmt.Fprintf(o.out, "Finished in %.3f seconds.\n", summary.Elapsed.Seconds())
	logging.LogDuration(start, "install")
	logger.Debug().
		Int("jobs", o.runner.Total()).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Dur("elapsed", summary.Elapsed).
		Msg("Run finished")
	return summary
}

// toJob binds a step to the run environment
func (o *Orchestrator) toJob(step Step) job.Job {
	run := step.Run
	return job.Job{
		Description: step.Description,
		Action:      func() error { return run(o.env) },
	}
}
