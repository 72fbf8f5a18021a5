package install

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zyxir/dotinstall/pkg/ahk"
	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/fileops"
	"github.com/zyxir/dotinstall/pkg/filesystem"
	"github.com/zyxir/dotinstall/pkg/fonts"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/manual"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/style"
	"github.com/zyxir/dotinstall/pkg/types"
)

// Config describes one installer run
type Config struct {
	Options  types.RunOptions
	Settings *config.Settings
	Platform types.Platform

	// Start is where the repository search begins; empty means the
	// working directory.
	Start string
	Out   io.Writer

	// FS, Commands and ResolverOptions replace the host defaults
	FS              types.FS
	Commands        *command.Runner
	ResolverOptions []paths.Option
}

// Run locates the repository and runs the manifest. The only error it
// returns is a failure to locate the repository; step failures are
// reported in the Summary.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	fs := cfg.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	start := cfg.Start
	if start == "" {
		start = "."
	}

	root, err := paths.LocateRepositoryRoot(fs, start, settings.Repository.Marker, settings.Repository.MarkerLine)
	if err != nil {
		return Summary{}, err
	}

	if cfg.Options.DryRun {
		fmt.Fprintf(out, "This is a %s. Nothing is actually installed.\n", style.Emph("dry run"))
	}

	env := NewEnv(ctx, cfg, settings, fs, root)
	logger := logging.GetLogger("install")
	logger.Debug().
		Str("root", env.Resolver.Base()).
		Str("platform", cfg.Platform.String()).
		Msg("Repository located")
	printer := manual.NewPrinter(out, style.ColorEnabled())
	return NewOrchestrator(env, Manifest(env), out, printer).Run(), nil
}

// NewEnv wires the collaborators of a run rooted at root
func NewEnv(ctx context.Context, cfg Config, settings *config.Settings, fs types.FS, root string) Env {
	dry := cfg.Options.DryRun

	opts := append([]paths.Option{paths.WithFS(fs)}, cfg.ResolverOptions...)
	resolver := paths.NewResolver(root, opts...)

	files := fileops.New(fs, resolver, dry)
	commands := cfg.Commands
	if commands == nil {
		commands = command.NewRunner(dry)
	}

	return Env{
		Ctx:      ctx,
		Platform: cfg.Platform,
		Options:  cfg.Options,
		Settings: settings,
		FS:       fs,
		Resolver: resolver,
		Files:    files,
		Commands: commands,
		Fonts: fonts.New(fonts.Options{
			Settings: settings.Fonts,
			Platform: cfg.Platform,
			Resolver: resolver,
			Files:    files,
			Commands: commands,
			DryRun:   dry,
		}),
		AHK: ahk.New(settings.AutoHotkey, fs, resolver, files, commands),
	}
}
