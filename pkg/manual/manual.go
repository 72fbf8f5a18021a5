// Package manual prints instructions for setup steps that need the user,
// typically because they require elevated privileges.
package manual

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/zyxir/dotinstall/pkg/logging"
	"github.com/zyxir/dotinstall/pkg/style"
)

// Notice asks the user to run Command unless Satisfied reports true
type Notice struct {
	// Satisfied reports whether the manual step is already done. An error
	// counts as not satisfied.
	Satisfied   func() (bool, error)
	Instruction string
	Command     string
}

// Printer shows notices
type Printer struct {
	out    io.Writer
	rich   bool
	logger zerolog.Logger
}

// NewPrinter returns a Printer. Rich output renders markdown with glamour
// and is meant for terminals.
func NewPrinter(out io.Writer, rich bool) *Printer {
	return &Printer{out: out, rich: rich, logger: logging.GetLogger("manual")}
}

// Show prints the notice when it is not satisfied and reports whether it did
func (p *Printer) Show(n Notice) bool {
	if n.Satisfied != nil {
		ok, err := n.Satisfied()
		if err != nil {
			p.logger.Warn().Err(err).Str("command", n.Command).Msg("Cannot check manual step")
		} else if ok {
			return false
		}
	}

	if p.rich {
		rendered, err := renderMarkdown(n)
		if err == nil {
			fmt.Fprint(p.out, rendered)
			return true
		}
		p.logger.Debug().Err(err).Msg("Markdown rendering failed, printing plain text")
	}

	fmt.Fprintln(p.out, style.Warning(n.Instruction))
	fmt.Fprintln(p.out, "  "+style.Command(n.Command))
	return true
}

func renderMarkdown(n Notice) (string, error) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", err
	}
	var md strings.Builder
	md.WriteString(n.Instruction)
	md.WriteString("\n\n```sh\n")
	md.WriteString(n.Command)
	md.WriteString("\n```\n")
	return renderer.Render(md.String())
}

// PathExists builds a Satisfied check from an existence test
func PathExists(exists func(string) bool, path string) func() (bool, error) {
	return func() (bool, error) {
		return exists(path), nil
	}
}
