//go:build !unix && !windows

package fileops

func isPlatformSymlinkDenied(error) bool {
	return false
}
