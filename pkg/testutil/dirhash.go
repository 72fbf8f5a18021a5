package testutil

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// DirHash fingerprints the tree rooted at root: relative paths, kinds, modes,
// file contents, modification times and symlink targets. A missing root
// hashes to a fixed value so creation of the root is also detected.
func DirHash(t *testing.T, root string) string {
	t.Helper()

	h := sha256.New()

	if _, err := os.Lstat(root); os.IsNotExist(err) {
		return "absent"
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(h, "%s|%s|", filepath.ToSlash(rel), info.Mode())

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(h, "->%s", target)
		case info.Mode().IsRegular():
			fmt.Fprintf(h, "%d|", info.ModTime().UnixNano())
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(h, f)
			f.Close()
			if err != nil {
				return err
			}
		}
		h.Write([]byte{'\n'})
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to hash %s: %v", root, err)
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
