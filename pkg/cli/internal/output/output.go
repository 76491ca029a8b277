// Package output provides common output formatting utilities.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/ourohead/ourohead/pkg/definition"
)

// badgeWidth fits the longest method name (OPTIONS).
const badgeWidth = 7

// JSON writes indented JSON to stdout.
func JSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table creates an aligned table writer for stdout.
// Remember to call Flush() when done writing.
func Table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// Warn prints a warning message to stderr.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// Badge renders method in its badge color. Color is dropped when stdout is
// not a terminal.
func Badge(method string) string {
	method = strings.ToUpper(method)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(expandHex(definition.MethodColor(method)))).
		Width(badgeWidth).
		Render(method)
}

// Heading renders a section heading.
func Heading(s string) string {
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(s)
}

// expandHex turns #rgb into #rrggbb.
func expandHex(c string) string {
	if len(c) != 4 || c[0] != '#' {
		return c
	}
	return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
}
