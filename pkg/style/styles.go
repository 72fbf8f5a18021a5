package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	PathStyle = lipgloss.NewStyle().
			Foreground(PathColor)

	CommandStyle = lipgloss.NewStyle().
			Foreground(CommandColor).
			Bold(true)

	EmphasisStyle = lipgloss.NewStyle().
			Bold(true)
)

// Path renders a filesystem path for status lines
func Path(path interface{}) string {
	return render(PathStyle, fmt.Sprint(path))
}

// Command renders an external command line
func Command(cmd string) string {
	return render(CommandStyle, cmd)
}

// Emph renders a short emphasized phrase
func Emph(s string) string {
	return render(EmphasisStyle, s)
}

func render(st lipgloss.Style, s string) string {
	if !ColorEnabled() {
		return s
	}
	return st.Render(s)
}
