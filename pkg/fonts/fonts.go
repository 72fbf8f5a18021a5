// Package fonts installs the personal font collection shipped as a zip
// archive (or an already extracted directory) outside the repository.
package fonts

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/fileops"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/types"
)

// WindowsFontDir is the per-user font directory on Windows
const WindowsFontDir = "%LOCALAPPDATA%/Microsoft/Windows/Fonts"

// Options wires an Installer
type Options struct {
	Settings config.FontSettings
	Platform types.Platform
	Resolver *paths.Resolver
	Files    *fileops.Operator
	Commands *command.Runner
	DryRun   bool

	// SourceFS is walked to collect font files. Defaults to the OS.
	SourceFS afero.Fs
	// FontDir overrides the per-platform destination directory
	FontDir string
	// Register makes copied fonts known to the session (Windows only)
	Register func(fonts []string) error
}

// Source is where the fonts were found. Exactly one field is set.
type Source struct {
	Dir     string
	Archive string
}

// Installer discovers and installs fonts
type Installer struct {
	opts   Options
	logger zerolog.Logger
}

// New returns an Installer
func New(opts Options) *Installer {
	if opts.SourceFS == nil {
		opts.SourceFS = afero.NewOsFs()
	}
	if opts.Resolver == nil {
		opts.Resolver = paths.NewResolver("")
	}
	if opts.Files == nil {
		opts.Files = fileops.New(nil, opts.Resolver, opts.DryRun)
	}
	if opts.Commands == nil {
		opts.Commands = command.NewRunner(opts.DryRun)
	}
	if opts.Register == nil {
		opts.Register = registerFonts
	}
	return &Installer{opts: opts, logger: logging.GetLogger("fonts")}
}

// Install locates the fonts, copies them into the user font directory and
// refreshes the platform's font registry.
func (i *Installer) Install(ctx context.Context) error {
	if !i.opts.Platform.IsLinux && !i.opts.Platform.IsWindows {
		return errors.Newf(errors.ErrUnsupportedPlatform, "font installation is not supported on %s", i.opts.Platform)
	}

	src, err := i.Locate()
	if err != nil {
		return err
	}

	dir := src.Dir
	if src.Archive != "" {
		if i.opts.DryRun {
			names, err := ListArchive(src.Archive, i.opts.Settings.Extensions)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return noFonts(src.Archive)
			}
			i.logger.Debug().Str("archive", src.Archive).Int("fonts", len(names)).Msg("Dry run, not extracting")
			return nil
		}

		tmp, err := os.MkdirTemp("", "dotinstall-fonts-")
		if err != nil {
			return errors.Wrap(err, errors.ErrDirCreate, "failed to create temporary directory")
		}
		defer os.RemoveAll(tmp)

		dir = filepath.Join(tmp, strings.TrimSuffix(filepath.Base(src.Archive), filepath.Ext(src.Archive)))
		if err := Extract(src.Archive, dir); err != nil {
			return err
		}
	}

	fonts, err := Collect(i.opts.SourceFS, dir, i.opts.Settings.Extensions)
	if err != nil {
		return err
	}
	if len(fonts) == 0 {
		return noFonts(dir)
	}

	if i.opts.DryRun {
		i.logger.Debug().Str("dir", dir).Int("fonts", len(fonts)).Msg("Dry run, not installing fonts")
		return nil
	}

	if i.opts.Platform.IsWindows {
		return i.installWindows(fonts)
	}
	return i.installLinux(ctx, fonts)
}

// Locate returns the first existing directory candidate, else the first
// existing archive candidate.
func (i *Installer) Locate() (Source, error) {
	r := i.opts.Resolver
	if dir, ok := r.FindFirstExisting(i.opts.Settings.Directories...); ok {
		return Source{Dir: r.Resolve(dir)}, nil
	}
	if archive, ok := r.FindFirstExisting(i.opts.Settings.Archives...); ok {
		return Source{Archive: r.Resolve(archive)}, nil
	}
	return Source{}, errors.New(errors.ErrNotFound, "cannot find the font archive").
		WithDetail("directories", r.ResolveAll(i.opts.Settings.Directories...)).
		WithDetail("archives", r.ResolveAll(i.opts.Settings.Archives...))
}

// Collect walks dir and returns every file with one of the extensions.
// Matching ignores case.
func Collect(fs afero.Fs, dir string, extensions []string) ([]string, error) {
	var fonts []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && hasExtension(path, extensions) {
			fonts = append(fonts, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "failed to scan font directory").
			WithDetail("dir", dir)
	}
	return fonts, nil
}

func (i *Installer) installLinux(ctx context.Context, fonts []string) error {
	target := i.opts.FontDir
	if target == "" {
		target = filepath.Join(xdg.DataHome, "fonts")
	}
	if err := i.copyAll(fonts, target); err != nil {
		return err
	}

	spec, err := command.Parse(i.opts.Settings.CacheCommand)
	if err != nil {
		return err
	}
	return i.opts.Commands.Run(ctx, spec)
}

func (i *Installer) installWindows(fonts []string) error {
	target := i.opts.FontDir
	if target == "" {
		target = i.opts.Resolver.Resolve(WindowsFontDir)
	}
	if err := i.copyAll(fonts, target); err != nil {
		return err
	}

	installed := make([]string, len(fonts))
	for n, font := range fonts {
		installed[n] = filepath.Join(target, filepath.Base(font))
	}
	return i.opts.Register(installed)
}

func (i *Installer) copyAll(fonts []string, target string) error {
	for _, font := range fonts {
		if err := i.opts.Files.Copy(font, filepath.Join(target, filepath.Base(font))); err != nil {
			return err
		}
	}
	i.logger.Info().Int("fonts", len(fonts)).Str("dir", target).Msg("Copied fonts")
	return nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, want := range extensions {
		if strings.EqualFold(ext, strings.TrimPrefix(want, ".")) {
			return true
		}
	}
	return false
}

func noFonts(where string) error {
	return errors.Newf(errors.ErrNotFound, "no fonts found in %s", where).
		WithDetail("source", where)
}
