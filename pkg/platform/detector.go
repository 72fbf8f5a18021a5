// Package platform detects the host facts that gate installation steps.
package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/zyxir/dotinstall/pkg/types"
)

// Marker paths consulted for WSL detection
const (
	WSLInteropPath = "/proc/sys/fs/binfmt_misc/WSLInterop"
	OSReleasePath  = "/proc/sys/kernel/osrelease"
)

// Probe holds the inputs of platform detection
type Probe struct {
	GOOS      string
	LookupEnv func(string) (string, bool)
	Exists    func(string) bool
	ReadFile  func(string) ([]byte, error)
}

// SystemProbe reads the real process environment
func SystemProbe() Probe {
	return Probe{
		GOOS:      runtime.GOOS,
		LookupEnv: os.LookupEnv,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		ReadFile: os.ReadFile,
	}
}

// Detect evaluates the probe
func (p Probe) Detect() types.Platform {
	info := types.Platform{
		IsWindows: p.GOOS == "windows",
		IsLinux:   p.GOOS == "linux",
	}
	info.IsWSL = info.IsLinux && p.isWSL()
	return info
}

// isWSL checks the interop marker, the distribution variable and the kernel
// release string, in that order.
func (p Probe) isWSL() bool {
	if p.Exists != nil && p.Exists(WSLInteropPath) {
		return true
	}
	if p.LookupEnv != nil {
		if distro, ok := p.LookupEnv("WSL_DISTRO_NAME"); ok && distro != "" {
			return true
		}
	}
	if p.ReadFile != nil {
		if release, err := p.ReadFile(OSReleasePath); err == nil {
			lower := strings.ToLower(string(release))
			return strings.Contains(lower, "microsoft") || strings.Contains(lower, "wsl")
		}
	}
	return false
}

var (
	detectOnce sync.Once
	detected   types.Platform
)

// Detect returns the host platform. It is computed once per process.
func Detect() types.Platform {
	detectOnce.Do(func() {
		detected = SystemProbe().Detect()
	})
	return detected
}
