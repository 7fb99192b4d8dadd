// Package logger provides verbose logging for timerdiv.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to show how the search space is enumerated.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	color             = isTerminal(os.Stderr)
)

// Level tag styles, used only when the output is a terminal.
var (
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Level tags are coloured only when w is a terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	color = isTerminal(w)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(debugStyle, "[DEBUG]", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n%s\n", paint(sectionStyle, "=== "+name+" ==="))
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(infoStyle, "[INFO]", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(warnStyle, "[WARN]", format, args...)
}

// Writers such as bytes.Buffer are not safe for concurrent use, so
// messages are written under the write lock.
func logf(style lipgloss.Style, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, paint(style, tag)+" "+format+"\n", args...)
	}
}

// paint must be called with mu held.
func paint(style lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
