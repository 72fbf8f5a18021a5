package style

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

var (
	colorOnce    sync.Once
	colorEnabled bool
	colorForced  *bool
)

// ColorEnabled reports whether stdout should receive styled output.
// NO_COLOR, a redirected stdout or an ASCII-only terminal disable it.
func ColorEnabled() bool {
	if colorForced != nil {
		return *colorForced
	}
	colorOnce.Do(func() {
		colorEnabled = detectColor(os.Stdout)
		if !colorEnabled {
			pterm.DisableStyling()
		}
	})
	return colorEnabled
}

// SetColor forces styling on or off, overriding detection
func SetColor(enabled bool) {
	colorForced = &enabled
	if enabled {
		pterm.EnableStyling()
	} else {
		pterm.DisableStyling()
	}
}

func detectColor(output *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if output == nil {
		return false
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return false
	}

	return termenv.ColorProfile() != termenv.Ascii
}
