package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorWhite  = lipgloss.Color("255") // paths and values
	colorGray   = lipgloss.Color("245") // table headers, info icon
	colorDim    = lipgloss.Color("240") // details, borders
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// printer writes styled status lines for the user. Documents written to
// stdout never go through it.
type printer struct {
	w io.Writer
}

// newPrinter prints to the command's output stream.
func newPrinter(cmd *cobra.Command) *printer {
	return &printer{w: cmd.OutOrStdout()}
}

func (p *printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *printer) success(format string, args ...any) {
	p.line(styleSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	p.line(styleWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...any) {
	p.line(styleInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (p *printer) detail(format string, args ...any) {
	p.line("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p *printer) file(path string) {
	p.line("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}
