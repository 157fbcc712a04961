// Package ui renders CLI output with lipgloss styles.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Printer writes styled status lines. Normal output goes to Out; errors go to Err.
type Printer struct {
	Out     io.Writer
	Err     io.Writer
	Quiet   bool
	Verbose bool

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	path    lipgloss.Style
}

// Options configures a Printer.
type Options struct {
	Out     io.Writer // defaults to os.Stdout
	Err     io.Writer // defaults to os.Stderr
	Quiet   bool
	Verbose bool
	NoColor bool
}

// New builds a Printer. Color is disabled when NoColor is set, when NO_COLOR
// is present in the environment, or when Out is not a terminal.
func New(opts Options) *Printer {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	r := lipgloss.NewRenderer(out)
	if !ColorEnabled(out, opts.NoColor) {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		Out:     out,
		Err:     errOut,
		Quiet:   opts.Quiet,
		Verbose: opts.Verbose,
		success: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}),
		failure: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}),
		path:    r.NewStyle().Underline(true),
	}
}

// ColorEnabled reports whether styled output should carry ANSI color codes.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Info prints a plain line unless quiet.
func (p *Printer) Info(format string, args ...any) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Success prints a highlighted completion line unless quiet.
func (p *Printer) Success(format string, args ...any) {
	if p.Quiet {
		return
	}
	fmt.Fprintln(p.Out, p.success.Render(fmt.Sprintf(format, args...)))
}

// Detail prints an indented, muted line only in verbose mode.
func (p *Printer) Detail(format string, args ...any) {
	if !p.Verbose {
		return
	}
	fmt.Fprintln(p.Out, "  "+p.muted.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning line in verbose mode.
func (p *Printer) Warn(format string, args ...any) {
	if !p.Verbose {
		return
	}
	fmt.Fprintln(p.Err, p.warning.Render("warning: "+fmt.Sprintf(format, args...)))
}

// Error prints an error line. Errors are shown even when quiet.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.Err, p.failure.Render("error: "+fmt.Sprintf(format, args...)))
}

// Path styles a filesystem path for inline use.
func (p *Printer) Path(path string) string {
	return p.path.Render(path)
}
