package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	// PathColor is used for filesystem paths
	PathColor = lipgloss.AdaptiveColor{
		Light: "#0E7490", // Dark cyan
		Dark:  "#22D3EE",
	}

	// CommandColor is used for external commands
	CommandColor = lipgloss.AdaptiveColor{
		Light: "#7C3AED", // Violet
		Dark:  "#A78BFA",
	}
)
