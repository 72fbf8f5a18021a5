package install

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/filesystem"
	"github.com/zyxir/dotinstall/pkg/manual"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/style"
	"github.com/zyxir/dotinstall/pkg/testutil"
	"github.com/zyxir/dotinstall/pkg/types"
)

var (
	linux   = types.Platform{IsLinux: true}
	wsl     = types.Platform{IsLinux: true, IsWSL: true}
	windows = types.Platform{IsWindows: true}
)

func lookNothing(string) (string, error) { return "", exec.ErrNotFound }

func lookEverything(name string) (string, error) { return "/usr/bin/" + name, nil }

// memRepo returns an in-memory filesystem holding a dotfiles repository at
// /repo with the given files.
func memRepo(t *testing.T, files map[string]string) types.FS {
	t.Helper()
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/repo", 0755))
	require.NoError(t, fs.WriteFile("/repo/README.md", []byte("# Dotfiles\n\nMine.\n"), 0644))
	require.NoError(t, fs.MkdirAll("/home/user", 0755))
	for name, content := range files {
		path := "/repo/" + name
		require.NoError(t, fs.MkdirAll(path[:strings.LastIndex(path, "/")], 0755))
		require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
	}
	return fs
}

func testConfig(fs types.FS, platform types.Platform, opts types.RunOptions, out *bytes.Buffer, look func(string) (string, error)) Config {
	return Config{
		Options:  opts,
		Platform: platform,
		Start:    "/repo/shell",
		Out:      out,
		FS:       fs,
		Commands: command.NewRunner(opts.DryRun, command.WithLookPath(look)),
		ResolverOptions: []paths.Option{
			paths.WithHomeDir(func() (string, error) { return "/home/user", nil }),
			paths.WithLookupEnv(func(name string) (string, bool) {
				if name == "APPDATA" {
					return "/home/user/AppData/Roaming", true
				}
				return "", false
			}),
		},
	}
}

func lines(out string) []string {
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// statusLines drops the dry-run banner and the timing line
func statusLines(out string) []string {
	var kept []string
	for _, line := range lines(out) {
		if strings.HasPrefix(line, "This is a dry run") || strings.HasPrefix(line, "Finished in") {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

var linuxFiles = map[string]string{
	"shell/bash/bashrc":              "# bashrc",
	"shell/bash/bash_profile":        "# bash_profile",
	"shell/zsh/zshrc":                "# zshrc",
	"apps/fontconfig/fonts.conf":     "<fontconfig/>",
	"apps/nix/home-manager/home.nix": "{ }",
	"apps/emacs/emacs.desktop":       "[Desktop Entry]",
	"gnome_dconf/wm.dconf":           "[preferences]",
}

func TestPredicates(t *testing.T) {
	env := Env{
		Platform: wsl,
		Options:  types.RunOptions{InstallFonts: true},
		Commands: command.NewRunner(false, command.WithLookPath(func(name string) (string, error) {
			if name == "dconf" {
				return "/usr/bin/dconf", nil
			}
			return "", exec.ErrNotFound
		})),
	}

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"always", Always, true},
		{"linux", OnLinux, true},
		{"windows", OnWindows, false},
		{"wsl", OnWSL, true},
		{"fonts", WithFonts, true},
		{"switch", WithSwitch, false},
		{"and all true", And(OnLinux, OnWSL), true},
		{"and one false", And(OnLinux, WithSwitch), false},
		{"empty and", And(), true},
		{"not", Not(OnWSL), false},
		{"command available", CommandAvailable("dconf"), true},
		{"command missing", CommandAvailable("home-manager"), false},
		{"dconf gate inside wsl", And(OnLinux, Not(OnWSL), CommandAvailable("dconf")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(env))
		})
	}

	assert.False(t, CommandAvailable("dconf")(Env{}), "no runner means nothing is available")
}

func TestRunLinux(t *testing.T) {
	style.SetColor(false)
	fs := memRepo(t, linuxFiles)
	var out bytes.Buffer

	summary, err := Run(context.Background(), testConfig(fs, linux, types.RunOptions{}, &out, lookNothing))
	require.NoError(t, err)

	got := lines(out.String())
	require.Len(t, got, 7)
	assert.Equal(t, []string{
		"Linking to ./shell/bash/bashrc as ~/.bashrc... done",
		"Linking to ./shell/bash/bash_profile as ~/.bash_profile... done",
		"Linking to ./shell/zsh/zshrc as ~/.zshrc... done",
		"Linking to ./shell/zsh/zshenv as ~/.zshenv... failed",
		"Linking to ./apps/fontconfig/fonts.conf as ~/.config/fontconfig/fonts.conf... done",
		"Linking to ./apps/nix/home-manager/home.nix as ~/.config/home-manager/home.nix... done",
	}, got[:6])
	assert.Regexp(t, `^Finished in \d+\.\d{3} seconds\.$`, got[6])

	assert.Equal(t, 5, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	content, err := fs.ReadFile("/home/user/.config/home-manager/home.nix")
	require.NoError(t, err)
	assert.Equal(t, "{ }", string(content))
}

func TestRunDryRunParity(t *testing.T) {
	style.SetColor(false)

	var realOut bytes.Buffer
	_, err := Run(context.Background(), testConfig(memRepo(t, linuxFiles), linux, types.RunOptions{}, &realOut, lookNothing))
	require.NoError(t, err)

	counting := testutil.NewCountingFS(memRepo(t, linuxFiles))
	var dry bytes.Buffer
	_, err = Run(context.Background(), testConfig(counting, linux, types.RunOptions{DryRun: true}, &dry, lookNothing))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dry.String(), "This is a dry run. Nothing is actually installed.\n"))
	assert.Equal(t, statusLines(realOut.String()), statusLines(dry.String()))
	assert.Equal(t, 0, counting.Mutations())
	_, statErr := counting.Stat("/home/user/.bashrc")
	assert.Error(t, statErr)
}

func TestRunRepositoryNotFound(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	var out bytes.Buffer

	_, err := Run(context.Background(), testConfig(fs, linux, types.RunOptions{}, &out, lookNothing))

	assert.True(t, errors.IsErrorCode(err, errors.ErrRepositoryNotFound))
	assert.Empty(t, out.String())
}

func TestRunWindows(t *testing.T) {
	style.SetColor(false)
	fs := memRepo(t, map[string]string{
		"apps/git/dot_gitconfig":                            "[user]",
		"shell/PowerShell/Microsoft.PowerShell_profile.ps1": "# profile",
		"apps/rime/default.custom.yaml":                     "patch: {}",
		"AutoHotkey/keys.ahk":                               "CapsLock::Ctrl",
	})
	var out bytes.Buffer

	summary, err := Run(context.Background(), testConfig(fs, windows, types.RunOptions{}, &out, lookNothing))
	require.NoError(t, err)

	got := lines(out.String())
	require.Len(t, got, 6)
	assert.Equal(t, []string{
		"Linking to ./apps/git/dot_gitconfig as ~/.gitconfig... done",
		"Linking to ./shell/PowerShell/Microsoft.PowerShell_profile.ps1 as ~/Documents/WindowsPowerShell/Microsoft.PowerShell_profile.ps1... done",
		"Linking to ./apps/rime as %APPDATA%/rime... done",
		"Configuring the Cangjie6 schema... done",
		"Installing AutoHotkey script keys.ahk... failed",
	}, got[:5])
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed, "the compiler is missing")

	patch, err := fs.ReadFile("/home/user/AppData/Roaming/rime/cangjie6.custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "\npatch:\n  \"switches/@2/reset\": 1\n    ", string(patch))

	schema, err := fs.ReadFile("/home/user/AppData/Roaming/rime/default.custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "patch: {}", string(schema))
}

func TestRunWSLNotice(t *testing.T) {
	style.SetColor(false)

	t.Run("missing launcher", func(t *testing.T) {
		var out bytes.Buffer
		summary, err := Run(context.Background(), testConfig(memRepo(t, linuxFiles), wsl, types.RunOptions{}, &out, lookEverything))
		require.NoError(t, err)

		assert.Contains(t, out.String(),
			"Run the following command to enable starting Emacs from Windows:\n"+
				"  sudo cp /repo/apps/emacs/emacs.desktop /usr/share/applications/emacs.desktop\n")
		assert.NotContains(t, out.String(), "dconf", "dconf is skipped inside WSL")
		assert.Equal(t, 1, summary.Notices)
	})

	t.Run("launcher installed", func(t *testing.T) {
		fs := memRepo(t, linuxFiles)
		require.NoError(t, fs.MkdirAll("/usr/share/applications", 0755))
		require.NoError(t, fs.WriteFile(EmacsDesktopPath, []byte("x"), 0644))

		var out bytes.Buffer
		summary, err := Run(context.Background(), testConfig(fs, wsl, types.RunOptions{}, &out, lookEverything))
		require.NoError(t, err)

		assert.NotContains(t, out.String(), "sudo cp")
		assert.Equal(t, 0, summary.Notices)
	})
}

func TestRunOptionalCommandsInDryRun(t *testing.T) {
	style.SetColor(false)
	var out bytes.Buffer
	opts := types.NewRunOptions(true, false, true, false)

	_, err := Run(context.Background(), testConfig(memRepo(t, linuxFiles), linux, opts, &out, lookEverything))
	require.NoError(t, err)

	got := statusLines(out.String())
	assert.Contains(t, got, "Running home-manager switch... done")
	assert.Contains(t, got, "Loading ./gnome_dconf/wm.dconf to dconf path /org/gnome/desktop/wm/... done")
	assert.Contains(t, got, "Loading ./gnome_dconf/mutter.dconf to dconf path /org/gnome/mutter/... failed")
}

func TestOrchestratorIsolationAndSummary(t *testing.T) {
	style.SetColor(false)
	var out bytes.Buffer
	var ran []string

	record := func(name string, err error) func(Env) error {
		return func(Env) error {
			ran = append(ran, name)
			return err
		}
	}
	steps := []Step{
		{Description: "one", Run: record("one", nil)},
		{Description: "two", Run: record("two", errors.New(errors.ErrSourceNotFound, "missing"))},
		{Description: "skipped", When: OnWindows, Run: record("skipped", nil)},
		{Description: "three", Run: func(Env) error { panic("boom") }},
		{Description: "four", When: OnLinux, Run: record("four", nil)},
		{When: Always, Notice: func(Env) manual.Notice {
			return manual.Notice{Instruction: "Do it:", Command: "make it"}
		}},
	}

	o := NewOrchestrator(Env{Platform: linux}, steps, &out, nil)
	clock := time.Unix(100, 0)
	o.now = func() time.Time {
		clock = clock.Add(750 * time.Millisecond)
		return clock
	}

	summary := o.Run()

	assert.Equal(t, []string{"one", "two", "four"}, ran)
	assert.Equal(t, []string{
		"one... done",
		"two... failed",
		"three... failed",
		"four... done",
		"Do it:",
		"  make it",
		"Finished in 0.750 seconds.",
	}, lines(out.String()))
	assert.Equal(t, Summary{Succeeded: 2, Failed: 2, Skipped: 1, Notices: 1, Elapsed: 750 * time.Millisecond}, summary)
}
