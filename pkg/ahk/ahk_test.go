package ahk

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyxir/dotinstall/pkg/command"
	"github.com/zyxir/dotinstall/pkg/config"
	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/fileops"
	"github.com/zyxir/dotinstall/pkg/filesystem"
	"github.com/zyxir/dotinstall/pkg/paths"
	"github.com/zyxir/dotinstall/pkg/testutil"
)

// fakeCompiler mimics "Ahk2Exe /in <file>" by copying the script to <stem>.exe
const fakeCompiler = `#!/bin/sh
[ "$1" = "/in" ] || exit 2
cp "$2" "${2%.ahk}.exe"
`

type fixture struct {
	repo    string
	startup string
	appData string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	return fixture{
		repo:    testutil.CreateDir(t, root, "repo"),
		appData: testutil.CreateDir(t, root, "AppData"),
		startup: filepath.Join(root, "AppData", "Microsoft", "Windows", "Start Menu", "Programs", "Startup"),
	}
}

func (f fixture) installer(t *testing.T, compiler string, dryRun bool) *Installer {
	t.Helper()
	settings := config.Default().AutoHotkey
	settings.Compiler = compiler

	resolver := paths.NewResolver(f.repo, paths.WithLookupEnv(func(name string) (string, bool) {
		if name == "APPDATA" {
			return f.appData, true
		}
		return "", false
	}))
	fs := filesystem.NewOS()
	return New(settings, fs, resolver, fileops.New(fs, resolver, dryRun), command.NewRunner(dryRun))
}

func writeCompiler(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
	path := testutil.CreateFile(t, dir, "Ahk2Exe.sh", fakeCompiler)
	require.NoError(t, os.Chmod(path, 0755))
	return path
}

func TestScripts(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "AutoHotkey/b.ahk", "")
	testutil.CreateFile(t, f.repo, "AutoHotkey/a.AHK", "")
	testutil.CreateFile(t, f.repo, "AutoHotkey/notes.txt", "")
	testutil.CreateFile(t, f.repo, "AutoHotkey/lib/c.ahk", "")

	scripts := f.installer(t, "unused", false).Scripts()

	assert.Equal(t, []string{
		filepath.Join(f.repo, "AutoHotkey", "a.AHK"),
		filepath.Join(f.repo, "AutoHotkey", "b.ahk"),
	}, scripts)
}

func TestScriptsMissingDirectory(t *testing.T) {
	f := newFixture(t)

	assert.Empty(t, f.installer(t, "unused", false).Scripts())
}

func TestExecutable(t *testing.T) {
	assert.Equal(t, filepath.Join("dir", "keys.exe"), Executable(filepath.Join("dir", "keys.ahk")))
}

func TestInstall(t *testing.T) {
	f := newFixture(t)
	compiler := writeCompiler(t, t.TempDir())
	script := testutil.CreateFile(t, f.repo, "AutoHotkey/keys.ahk", "CapsLock::Ctrl")

	err := f.installer(t, compiler, false).Install(context.Background(), script)
	require.NoError(t, err)

	assert.True(t, testutil.FileExists(t, filepath.Join(f.repo, "AutoHotkey", "keys.exe")))
	assert.Equal(t, "CapsLock::Ctrl", testutil.ReadFile(t, filepath.Join(f.startup, "keys.exe")))
}

func TestInstallDryRun(t *testing.T) {
	f := newFixture(t)
	compiler := writeCompiler(t, t.TempDir())
	script := testutil.CreateFile(t, f.repo, "AutoHotkey/keys.ahk", "")
	before := testutil.DirHash(t, filepath.Dir(f.repo))

	err := f.installer(t, compiler, true).Install(context.Background(), script)
	require.NoError(t, err)

	assert.Equal(t, before, testutil.DirHash(t, filepath.Dir(f.repo)))
}

func TestInstallMissingCompiler(t *testing.T) {
	f := newFixture(t)
	script := testutil.CreateFile(t, f.repo, "AutoHotkey/keys.ahk", "")

	err := f.installer(t, filepath.Join(t.TempDir(), "Ahk2Exe.exe"), false).Install(context.Background(), script)

	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "Ahk2Exe.exe not found")
}

func TestInstallCompilerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
	f := newFixture(t)
	compiler := testutil.CreateFile(t, t.TempDir(), "Ahk2Exe.sh", "#!/bin/sh\nexit 1\n")
	require.NoError(t, os.Chmod(compiler, 0755))
	script := testutil.CreateFile(t, f.repo, "AutoHotkey/keys.ahk", "")

	err := f.installer(t, compiler, false).Install(context.Background(), script)

	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalCommand))
	assert.False(t, testutil.FileExists(t, filepath.Join(f.startup, "keys.exe")))
}
