// Package ahk compiles AutoHotkey scripts and installs the executables so
// they start with the Windows session.
package ahk

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/fileops"
	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/style"
	"github.com/zyxir/dotinstall/pkg/types"
)

// Installer compiles and installs scripts
type Installer struct {
	settings config.AutoHotkeySettings
	fs       types.FS
	resolver *paths.Resolver
	files    *fileops.Operator
	commands *command.Runner
	logger   zerolog.Logger
}

// New returns an Installer. The filesystem is only read, to list scripts
// and to check for the compiler. Dry runs follow files.
func New(settings config.AutoHotkeySettings, fs types.FS, resolver *paths.Resolver,
	files *fileops.Operator, commands *command.Runner) *Installer {
	return &Installer{
		settings: settings,
		fs:       fs,
		resolver: resolver,
		files:    files,
		commands: commands,
		logger:   logging.GetLogger("ahk"),
	}
}

// Scripts lists the *.ahk files directly inside the script directory.
// A missing directory yields no scripts and a warning.
func (i *Installer) Scripts() []string {
	dir := i.resolver.Resolve(i.settings.Directory)
	entries, err := i.fs.ReadDir(dir)
	if err != nil {
		i.logger.Warn().Str("dir", dir).Msg("Script directory not found, no AutoHotkey script is installed")
		return nil
	}

	var scripts []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".ahk") {
			scripts = append(scripts, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(scripts)
	return scripts
}

// Describe returns the status line text for installing script
func Describe(script string) string {
	return "Installing AutoHotkey script " + style.Path(script)
}

// Install compiles script next to itself and copies the executable into the
// startup directory.
func (i *Installer) Install(ctx context.Context, script string) error {
	compiler := i.resolver.Resolve(i.settings.Compiler)
	if _, err := i.fs.Stat(compiler); err != nil {
		return errors.Newf(errors.ErrNotFound, "%s not found", filepath.Base(compiler)).
			WithDetail("compiler", compiler)
	}

	spec := command.Spec{
		Name: compiler,
		Args: []string{"/in", script},
		Dir:  filepath.Dir(script),
	}
	if err := i.commands.Run(ctx, spec); err != nil {
		return errors.Wrapf(err, errors.ErrExternalCommand, "error compiling %s", script).
			WithDetail("script", script)
	}
	if i.files.DryRun() {
		return nil
	}

	exe := Executable(script)
	if _, err := i.fs.Stat(exe); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotFound, "compiler produced no %s", filepath.Base(exe)).
				WithDetail("script", script)
		}
		return errors.Wrap(err, errors.ErrFileCopy, "failed to inspect executable")
	}

	dst := filepath.Join(i.resolver.Resolve(i.settings.StartupDir), filepath.Base(exe))
	return i.files.Copy(exe, dst)
}

// Executable returns the path Ahk2Exe writes for script
func Executable(script string) string {
	return strings.TrimSuffix(script, filepath.Ext(script)) + ".exe"
}
