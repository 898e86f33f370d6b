package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// headerStyle renders table headers. Lipgloss drops the styling when
// stdout is not a terminal.
var headerStyle = lipgloss.NewStyle().Bold(true)

// TableData is the tabular rendering of a command result.
type TableData struct {
	Headers []string
	Rows    [][]string

	// Footer is printed after the table when non-empty (summary lines
	// like totals), skipped in quiet mode.
	Footer string
}

// OutputWriter renders command results in the format selected by the
// --output flag.
type OutputWriter struct {
	format string
	out    io.Writer
}

// NewOutputWriter creates a writer for the current output format.
func NewOutputWriter() *OutputWriter {
	return &OutputWriter{format: OutputFormat(), out: os.Stdout}
}

// WriteResult writes the raw value for json and yaml output and the
// table rendering otherwise.
func (o *OutputWriter) WriteResult(raw any, table TableData) error {
	if o.format == "json" || o.format == "yaml" {
		return o.Write(raw)
	}
	return o.Write(table)
}

// Write renders data in the configured format. Tables fall back to
// JSON for formats that need structure, and non-table data falls back
// to JSON for the table format.
func (o *OutputWriter) Write(data any) error {
	switch o.format {
	case "json":
		return o.writeJSON(data)
	case "yaml":
		enc := yaml.NewEncoder(o.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case "quiet":
		return o.writeQuiet(data)
	}

	switch v := data.(type) {
	case TableData:
		return o.writeTable(v)
	case string:
		_, err := fmt.Fprintln(o.out, v)
		return err
	}
	return o.writeJSON(data)
}

// WriteSuccess prints a confirmation line, suppressed in quiet mode.
func (o *OutputWriter) WriteSuccess(msg string) {
	if o.format != "quiet" {
		fmt.Fprintln(o.out, msg)
	}
}

// WriteError prints an error line to stderr.
func (o *OutputWriter) WriteError(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (o *OutputWriter) writeJSON(data any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// writeQuiet emits the minimal, pipeable form: first column for
// tables, one value per line for strings.
func (o *OutputWriter) writeQuiet(data any) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(o.out, v)
	case []string:
		for _, s := range v {
			fmt.Fprintln(o.out, s)
		}
	case TableData:
		for _, row := range v.Rows {
			if len(row) > 0 {
				fmt.Fprintln(o.out, row[0])
			}
		}
	default:
		return o.writeJSON(data)
	}
	return nil
}

// writeTable renders aligned columns with a styled header row. Column
// widths are computed up front so styling never skews the alignment;
// the last cell of each line stays unpadded.
func (o *OutputWriter) writeTable(data TableData) error {
	widths := columnWidths(data)

	if len(data.Headers) > 0 {
		cells := make([]string, len(data.Headers))
		for i, h := range data.Headers {
			if i < len(data.Headers)-1 {
				h = pad(h, widths[i])
			}
			cells[i] = headerStyle.Render(h)
		}
		fmt.Fprintln(o.out, strings.Join(cells, "  "))
	}

	for _, row := range data.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(row)-1 && i < len(widths) {
				cell = pad(cell, widths[i])
			}
			cells[i] = cell
		}
		fmt.Fprintln(o.out, strings.Join(cells, "  "))
	}

	if data.Footer != "" {
		fmt.Fprintln(o.out)
		fmt.Fprintln(o.out, data.Footer)
	}
	return nil
}

func columnWidths(data TableData) []int {
	cols := len(data.Headers)
	for _, row := range data.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	for i, h := range data.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range data.Rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func pad(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
