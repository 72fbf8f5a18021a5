package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyxir/dotinstall/internal/version"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/testutil"
	"github.com/zyxir/dotinstall/pkg/types"
)

func execute(t *testing.T, opts Options, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCmdWithOptions(opts)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootFlagsRunOptions(t *testing.T) {
	tests := []struct {
		name  string
		flags rootFlags
		want  types.RunOptions
	}{
		{name: "none", want: types.RunOptions{}},
		{name: "dry", flags: rootFlags{dry: true}, want: types.RunOptions{DryRun: true}},
		{name: "fonts", flags: rootFlags{fonts: true}, want: types.RunOptions{InstallFonts: true}},
		{name: "complete", flags: rootFlags{complete: true}, want: types.RunOptions{InstallFonts: true, DoSwitch: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.runOptions())
		})
	}

	assert.Equal(t, 0, rootFlags{}.verbosity())
	assert.Equal(t, 1, rootFlags{debug: true}.verbosity())
}

func TestRootCmdFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"dry", "fonts", "switch", "complete", "debug", "set"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, Options{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dotinstall version "+version.Version)
	assert.Contains(t, out, "commit:")
}

func TestConfigCmd(t *testing.T) {
	out, err := execute(t, Options{}, "config", "--set", "switch.command=nix run home-manager -- switch")
	require.NoError(t, err)

	var got config.Settings
	require.NoError(t, toml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "nix run home-manager -- switch", got.Switch.Command)
	assert.Equal(t, config.Default().Repository, got.Repository)
}

func TestConfigCmdDefaults(t *testing.T) {
	out, err := execute(t, Options{}, "config", "--defaults", "--set", "switch.command=ignored")
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigContent(), out)
	assert.NotContains(t, out, "ignored")
}

func TestConfigCmdInvalidOverride(t *testing.T) {
	_, err := execute(t, Options{}, "config", "--set", "nonsense")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCompletionCmd(t *testing.T) {
	out, err := execute(t, Options{}, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dotinstall")

	_, err = execute(t, Options{}, "completion", "tcsh")
	assert.Error(t, err)
}

func TestManCmd(t *testing.T) {
	out, err := execute(t, Options{}, "man")
	require.NoError(t, err)
	assert.Contains(t, out, "DOTINSTALL")
	assert.Contains(t, out, "dry")
}

func TestRootCmdDryRun(t *testing.T) {
	repo := testutil.NewDotfilesRepo(t, map[string]string{"apps/": ""})
	start := filepath.Join(repo, "apps")
	linux := types.Platform{IsLinux: true}

	out, err := execute(t, Options{Start: start, Platform: &linux}, "--dry")
	require.NoError(t, err)

	assert.Contains(t, out, "Nothing is actually installed.")
	assert.Contains(t, out, "Finished in")
	assert.NoFileExists(t, filepath.Join(repo, "apps", "dconf"))
}

func TestRootCmdDryRunWritesNoLogFile(t *testing.T) {
	repo := testutil.NewDotfilesRepo(t, nil)
	linux := types.Platform{IsLinux: true}
	state := t.TempDir()

	var out bytes.Buffer
	cmd := NewRootCmdWithOptions(Options{Start: repo, Platform: &linux})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--dry"})
	t.Setenv("XDG_STATE_HOME", state)
	require.NoError(t, cmd.Execute())

	assert.NoDirExists(t, filepath.Join(state, "dotinstall"))
	assert.Empty(t, rootFlags{}.logOptions())
}

func TestRootCmdRepositoryNotFound(t *testing.T) {
	linux := types.Platform{IsLinux: true}

	out, err := execute(t, Options{Start: t.TempDir(), Platform: &linux})
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Contains(t, out, MsgRepoNotFound)
	assert.NotContains(t, out, "Finished in")
}

func TestRootCmdRejectsArgs(t *testing.T) {
	_, err := execute(t, Options{}, "extra")
	assert.Error(t, err)
}
