//go:build windows

package fileops

import (
	stderrors "errors"

	"golang.org/x/sys/windows"
)

// Creating symlinks needs SeCreateSymbolicLinkPrivilege unless developer
// mode is enabled.
func isPlatformSymlinkDenied(err error) bool {
	return stderrors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) ||
		stderrors.Is(err, windows.ERROR_NOT_SUPPORTED) ||
		stderrors.Is(err, windows.ERROR_INVALID_FUNCTION)
}
