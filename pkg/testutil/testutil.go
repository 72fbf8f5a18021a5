package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepositoryMarker is the README first line that identifies a dotfiles
// repository root.
const RepositoryMarker = "# Dotfiles"

// NewDotfilesRepo creates a temporary repository root carrying the marker
// README, plus the given files (see CreateTree).
func NewDotfilesRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	CreateFile(t, root, "README.md", RepositoryMarker+"\n")
	CreateTree(t, root, files)
	return root
}

// CreateTree writes files below root in lexical order. A key ending in "/"
// creates an empty directory.
func CreateTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			CreateDir(t, root, name)
			continue
		}
		CreateFile(t, root, name, files[name])
	}
}

// CreateFile writes content to dir/name with 0644, creating parents
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateDir creates parent/name and its ancestors
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

// CreateSymlink makes link point at target. Hosts that refuse symlinks
// (Windows without developer mode) skip the test.
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable on this host: %v", err)
	}
}

// FileExists reports whether path exists and is not a directory
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SymlinkExists reports whether path itself is a symlink
func SymlinkExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func ReadSymlink(t *testing.T, path string) string {
	t.Helper()
	target, err := os.Readlink(path)
	require.NoError(t, err)
	return target
}
