package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Method      *color.Color
	URL         *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	HeaderValue *color.Color
	Success     *color.Color
	Error       *color.Color
	Highlight   *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Method:      color.New(color.FgBlue, color.Bold),
		URL:         color.New(color.FgCyan),
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		HeaderValue: color.New(color.FgWhite),
		Success:     color.New(color.FgGreen),
		Error:       color.New(color.FgRed),
		Highlight:   color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range []*color.Color{
		scheme.Method, scheme.URL,
		scheme.StatusOK, scheme.StatusWarn, scheme.StatusError,
		scheme.HeaderKey, scheme.HeaderValue,
		scheme.Success, scheme.Error, scheme.Highlight,
	} {
		c.DisableColor()
	}
	return scheme
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}
