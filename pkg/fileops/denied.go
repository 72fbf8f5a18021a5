package fileops

import (
	stderrors "errors"
	"os"

	"github.com/spf13/afero"
)

// isSymlinkDenied reports whether a symlink failure means the host does not
// let us create links at all, as opposed to a broken destination.
func isSymlinkDenied(err error) bool {
	switch {
	case err == nil:
		return false
	case stderrors.Is(err, afero.ErrNoSymlink):
		return true
	case stderrors.Is(err, os.ErrPermission):
		return true
	case stderrors.Is(err, stderrors.ErrUnsupported):
		return true
	}
	return isPlatformSymlinkDenied(err)
}
