package types

// Platform holds the host facts that gate installation steps
type Platform struct {
	IsWindows bool
	IsLinux   bool
	// IsWSL refines IsLinux: it is only ever true together with it.
	IsWSL bool
}

// String returns a short name for logging
func (p Platform) String() string {
	switch {
	case p.IsWSL:
		return "wsl"
	case p.IsLinux:
		return "linux"
	case p.IsWindows:
		return "windows"
	default:
		return "unknown"
	}
}
