// Package style renders the presentation layer of dotinstall: emphasized
// paths and commands (lipgloss) and the done/failed status suffixes (pterm).
// Styling is dropped entirely when NO_COLOR is set or stdout is not a color
// terminal.
package style
