//go:build unix

package fileops

import (
	stderrors "errors"

	"golang.org/x/sys/unix"
)

// Filesystems such as vfat and exfat refuse symlinks outright.
func isPlatformSymlinkDenied(err error) bool {
	return stderrors.Is(err, unix.EPERM) || stderrors.Is(err, unix.EOPNOTSUPP)
}
