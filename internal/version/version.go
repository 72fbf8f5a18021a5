package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/zyxir/dotinstall/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/zyxir/dotinstall/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/zyxir/dotinstall/internal/version.Date={{.Date}}
)

// Info returns the three build fields
func Info() (version, commit, date string) {
	return Version, Commit, Date
}
