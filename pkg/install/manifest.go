package install

import (
	"fmt"
	"path/filepath"

	"github.com/zyxir/dotinstall/pkg/ahk"
	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/manual"
	"github.com/zyxir/dotinstall/pkg/rime"
	"github.com/zyxir/dotinstall/pkg/style"
)

// EmacsDesktopPath is where desktop environments look for the Emacs launcher
const EmacsDesktopPath = "/usr/share/applications/emacs.desktop"

type placement struct {
	src, dst string
}

var linuxLinks = []placement{
	{"./shell/bash/bashrc", "~/.bashrc"},
	{"./shell/bash/bash_profile", "~/.bash_profile"},
	{"./shell/zsh/zshrc", "~/.zshrc"},
	{"./shell/zsh/zshenv", "~/.zshenv"},
	{"./apps/fontconfig/fonts.conf", "~/.config/fontconfig/fonts.conf"},
	{"./apps/nix/home-manager/home.nix", "~/.config/home-manager/home.nix"},
}

var windowsLinks = []placement{
	{"./apps/git/dot_gitconfig", "~/.gitconfig"},
	{"./shell/PowerShell/Microsoft.PowerShell_profile.ps1", "~/Documents/WindowsPowerShell/Microsoft.PowerShell_profile.ps1"},
	{"./apps/rime", "%APPDATA%/rime"},
}

// dconfLoads maps dumps in the repository to the dconf paths they restore
var dconfLoads = []placement{
	{"./gnome_dconf/wm.dconf", "/org/gnome/desktop/wm/"},
	{"./gnome_dconf/mutter.dconf", "/org/gnome/mutter/"},
	{"./gnome_dconf/media-keys.dconf", "/org/gnome/settings-daemon/plugins/media-keys/"},
	{"./gnome_dconf/dash-to-panel.dconf", "/org/gnome/shell/extensions/dash-to-panel/"},
	{"./gnome_dconf/improved-workspace-indicator.dconf", "/org/gnome/shell/extensions/improved-workspace-indicator/"},
	{"./gnome_dconf/trayIconsReloaded.dconf", "/org/gnome/shell/extensions/trayIconsReloaded/"},
}

// Manifest returns the ordered installation script. Steps that do not apply
// to env are kept; the orchestrator filters them with their predicates.
func Manifest(env Env) []Step {
	var steps []Step

	for _, p := range linuxLinks {
		steps = append(steps, linkStep(p.src, p.dst, OnLinux))
	}
	steps = append(steps, switchStep(env))
	for _, p := range dconfLoads {
		steps = append(steps, dconfStep(p.src, p.dst))
	}

	for _, p := range windowsLinks {
		steps = append(steps, linkStep(p.src, p.dst, OnWindows))
	}
	steps = append(steps, Step{
		Description: rime.Description,
		When:        OnWindows,
		Run: func(env Env) error {
			return rime.WritePatch(env.Files, env.Settings.Rime.PatchPath)
		},
	})
	steps = append(steps, autoHotkeySteps(env)...)

	steps = append(steps, Step{
		Description: "Installing fonts in " + style.Path("ZyFonts.zip"),
		When:        WithFonts,
		Run: func(env Env) error {
			return env.Fonts.Install(env.Ctx)
		},
	})

	steps = append(steps, Step{
		When: OnWSL,
		Notice: func(env Env) manual.Notice {
			return manual.Notice{
				Satisfied:   manual.PathExists(env.Resolver.Exists, EmacsDesktopPath),
				Instruction: "Run the following command to enable starting Emacs from Windows:",
				Command:     fmt.Sprintf("sudo cp %s %s", env.Resolver.Resolve("./apps/emacs/emacs.desktop"), EmacsDesktopPath),
			}
		},
	})

	return steps
}

func linkStep(src, dst string, when Predicate) Step {
	return Step{
		Description: fmt.Sprintf("Linking to %s as %s", style.Path(src), style.Path(dst)),
		When:        when,
		Run: func(env Env) error {
			return env.Files.Link(src, dst)
		},
	}
}

func switchStep(env Env) Step {
	cmdline := "home-manager switch"
	if env.Settings != nil && env.Settings.Switch.Command != "" {
		cmdline = env.Settings.Switch.Command
	}
	spec, parseErr := command.Parse(cmdline)

	return Step{
		Description: command.Describe(spec),
		When:        And(OnLinux, WithSwitch),
		Run: func(env Env) error {
			if parseErr != nil {
				return parseErr
			}
			return env.Commands.Run(env.Ctx, spec)
		},
	}
}

func dconfStep(src, path string) Step {
	return Step{
		Description: fmt.Sprintf("Loading %s to dconf path %s", style.Path(src), style.Path(path)),
		When:        And(OnLinux, Not(OnWSL), CommandAvailable("dconf")),
		Run: func(env Env) error {
			dump := env.Resolver.Resolve(src)
			if !env.Resolver.Exists(src) {
				return errors.Newf(errors.ErrSourceNotFound, "%s does not exist", dump).
					WithDetail("source", dump)
			}
			return env.Commands.Run(env.Ctx, command.Spec{
				Name:      "dconf",
				Args:      []string{"load", path},
				StdinPath: dump,
			})
		},
	}
}

// autoHotkeySteps lists one step per script. Scripts are only looked up on
// Windows.
func autoHotkeySteps(env Env) []Step {
	if env.AHK == nil || !OnWindows(env) {
		return nil
	}

	var steps []Step
	for _, script := range env.AHK.Scripts() {
		script := script
		steps = append(steps, Step{
			Description: ahk.Describe(filepath.Base(script)),
			When:        OnWindows,
			Run: func(env Env) error {
				return env.AHK.Install(env.Ctx, script)
			},
		})
	}
	return steps
}
