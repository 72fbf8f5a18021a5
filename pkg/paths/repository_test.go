package paths

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyxir/dotinstall/pkg/errors"
	"github.com/zyxir/dotinstall/pkg/filesystem"
	"github.com/zyxir/dotinstall/pkg/testutil"
)

func TestLocateRepositoryRoot(t *testing.T) {
	t.Run("ascends from a nested directory", func(t *testing.T) {
		root := t.TempDir()
		a := testutil.CreateDir(t, root, "a")
		testutil.CreateFile(t, a, "README.md", "# Dotfiles\n\nMy configuration.\n")
		deep := testutil.CreateDir(t, a, filepath.Join("b", "c"))

		got, err := LocateRepositoryRoot(filesystem.NewOS(), deep, "README.md", "# Dotfiles")
		require.NoError(t, err)
		assert.Equal(t, a, got)
	})

	t.Run("start directory itself", func(t *testing.T) {
		root := t.TempDir()
		testutil.CreateFile(t, root, "README.md", "# Dotfiles")

		got, err := LocateRepositoryRoot(filesystem.NewOS(), root, "README.md", "# Dotfiles")
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})
}

func TestLocateRepositoryRootInMemory(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := filesystem.NewAferoFS(mem)
	require.NoError(t, mem.MkdirAll("/home/zyxir/dotfiles/apps/rime/sub", 0755))

	t.Run("no marker anywhere up to the root", func(t *testing.T) {
		_, err := LocateRepositoryRoot(fs, "/home/zyxir/dotfiles/apps/rime/sub", "README.md", "# Dotfiles")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRepositoryNotFound))
	})

	t.Run("wrong first line is skipped", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(mem, "/home/zyxir/dotfiles/apps/README.md", []byte("# Apps\n"), 0644))
		require.NoError(t, afero.WriteFile(mem, "/home/zyxir/dotfiles/README.md", []byte("# Dotfiles\r\nmore\n"), 0644))

		got, err := LocateRepositoryRoot(fs, "/home/zyxir/dotfiles/apps/rime/sub", "README.md", "# Dotfiles")
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/home/zyxir/dotfiles"), got)
	})

	t.Run("marker that is a directory does not match", func(t *testing.T) {
		require.NoError(t, mem.MkdirAll("/srv/repo/README.md", 0755))
		require.NoError(t, mem.MkdirAll("/srv/repo/x", 0755))

		_, err := LocateRepositoryRoot(fs, "/srv/repo/x", "README.md", "# Dotfiles")
		assert.Error(t, err)
	})

	t.Run("nested marker path", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(mem, "/opt/dots/.meta/ID", []byte("dots"), 0644))
		require.NoError(t, mem.MkdirAll("/opt/dots/x/y", 0755))

		got, err := LocateRepositoryRoot(fs, "/opt/dots/x/y", filepath.Join(".meta", "ID"), "dots")
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/opt/dots"), got)
	})
}
