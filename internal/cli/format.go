package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// fatih/color disables these when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	kindColor    = color.New(color.FgCyan)
)

// printSuccess prints a success message with a checkmark
func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

// printLine prints a plain line of output
func printLine(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, msg)
}

// printTable prints a simple table with a header row
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	var line strings.Builder
	for i, header := range headers {
		if i > 0 {
			line.WriteString("  ")
		}
		fmt.Fprintf(&line, "%-*s", colWidths[i], header)
	}
	_, _ = headerColor.Fprintln(w, strings.TrimRight(line.String(), " "))

	for _, row := range rows {
		line.Reset()
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				line.WriteString("  ")
			}
			fmt.Fprintf(&line, "%-*s", colWidths[i], cell)
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// printPath prints one resolved path as "kind  canonical".
func printPath(w io.Writer, info pathInfo) {
	_, _ = kindColor.Fprintf(w, "%-10s ", info.Kind)
	s := info.Canonical
	if s == "" {
		s = info.Original
	}
	_, _ = fmt.Fprintln(w, s)
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}
