// Package output holds the terminal formatting shared by the commands:
// colored status messages on stderr, JSON on stdout and small text helpers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/rangepick/internal/models"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Writers are variables so tests can capture output.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Error prints a formatted error message to stderr
func Error(format string, args ...any) {
	fmt.Fprintln(Stderr, errorStyle.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a formatted warning to stderr
func Warning(format string, args ...any) {
	fmt.Fprintln(Stderr, warningStyle.Render("Warning:")+" "+fmt.Sprintf(format, args...))
}

// Success prints a confirmation to stderr so stdout stays machine-readable.
func Success(format string, args ...any) {
	fmt.Fprintln(Stderr, successStyle.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Muted renders s in the dim foreground used for secondary text.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// JSON writes v as indented JSON to stdout.
func JSON(v any) error {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONLine writes v as a single line of JSON, for streamed output.
func JSONLine(v any) error {
	return json.NewEncoder(Stdout).Encode(v)
}

// JSONError writes an error object to stdout.
func JSONError(code, message string) {
	_ = JSON(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// FormatTimeAgo renders t relative to now, e.g. "5m ago".
func FormatTimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// FormatSource returns a short label for where a pick came from.
func FormatSource(s models.PickSource) string {
	switch s {
	case models.SourcePreset:
		return "[preset]"
	case models.SourceCheck:
		return "[check]"
	default:
		return "[picker]"
	}
}
