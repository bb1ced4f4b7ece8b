// Package view provides output formatting for manscope commands.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/manscope/pkg/man"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatPlain Format = "plain"
)

// ValidFormats returns the accepted output format names.
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatYAML), string(FormatPlain)}
}

// ValidateFormat checks an output format name. The empty string selects
// the default and is accepted; names are case-sensitive.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range ValidFormats() {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q: must be one of %s", format, strings.Join(ValidFormats(), ", "))
}

// Renderer renders data in a specific format.
type Renderer struct {
	format  Format
	writer  io.Writer
	noColor bool
}

// NewRenderer creates a new renderer with the specified format.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	if format == "" {
		format = FormatTable
	}
	return &Renderer{
		format:  format,
		writer:  os.Stdout,
		noColor: noColor,
	}
}

// SetWriter sets the output writer.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// Format returns the renderer's format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderTable renders data as a table.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	switch r.format {
	case FormatJSON:
		r.renderTableAsJSON(headers, rows)
		return
	case FormatYAML:
		_ = r.RenderYAML(tableRecords(headers, rows))
		return
	case FormatPlain:
		r.renderTableAsPlain(rows)
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	bold := color.New(color.Bold)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(r.writer, "  ")
		}
		_, _ = bold.Fprint(r.writer, pad(h, widths[i], i == len(headers)-1))
	}
	fmt.Fprintln(r.writer)

	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "  ")
			}
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			fmt.Fprint(r.writer, pad(val, w, i == len(row)-1))
		}
		fmt.Fprintln(r.writer)
	}
}

func pad(s string, width int, last bool) string {
	if last || len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func tableRecords(headers []string, rows [][]string) []map[string]string {
	var result []map[string]string
	for _, row := range rows {
		item := make(map[string]string)
		for i, header := range headers {
			if i < len(row) {
				item[strings.ToLower(header)] = row[i]
			}
		}
		result = append(result, item)
	}
	return result
}

func (r *Renderer) renderTableAsJSON(headers []string, rows [][]string) {
	data, _ := json.MarshalIndent(tableRecords(headers, rows), "", "  ")
	fmt.Fprintln(r.writer, string(data))
}

func (r *Renderer) renderTableAsPlain(rows [][]string) {
	for _, row := range rows {
		fmt.Fprintln(r.writer, strings.Join(row, "\t"))
	}
}

// RenderJSON renders an object as JSON.
func (r *Renderer) RenderJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// RenderYAML renders an object as YAML.
func (r *Renderer) RenderYAML(v any) error {
	enc := yaml.NewEncoder(r.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// RenderTree renders a parsed document: an indented outline for table
// and plain output, the full document for json and yaml.
func (r *Renderer) RenderTree(doc *man.Document) error {
	switch r.format {
	case FormatJSON:
		return r.RenderJSON(doc)
	case FormatYAML:
		return r.RenderYAML(doc)
	default:
		return man.Fprint(r.writer, doc.Root)
	}
}

// RenderDiagnostics renders diagnostics as a table, or as records for
// json and yaml. file, when set, is added as the first column.
func (r *Renderer) RenderDiagnostics(file string, diags []man.Diagnostic) error {
	return r.RenderFileDiagnostics([]FileDiagnostics{{File: file, Diagnostics: diags}})
}

// FileDiagnostics holds the diagnostics of one input file.
type FileDiagnostics struct {
	File        string
	Diagnostics []man.Diagnostic
}

// RenderFileDiagnostics renders the diagnostics of several files as one
// table, or as a single list of records for json and yaml.
func (r *Renderer) RenderFileDiagnostics(sets []FileDiagnostics) error {
	records := []diagnosticRecord{}
	withFile := false
	for _, set := range sets {
		if set.File != "" {
			withFile = true
		}
		records = append(records, diagnosticRecords(set.File, set.Diagnostics)...)
	}

	switch r.format {
	case FormatJSON:
		return r.RenderJSON(records)
	case FormatYAML:
		return r.RenderYAML(records)
	case FormatPlain:
		for _, rec := range records {
			if rec.File != "" {
				fmt.Fprintf(r.writer, "%s:", rec.File)
			}
			fmt.Fprintln(r.writer, rec.Diagnostic.String())
		}
		return nil
	}

	headers := []string{"LINE", "COL", "SEVERITY", "KIND", "MACRO", "MESSAGE"}
	if withFile {
		headers = append([]string{"FILE"}, headers...)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		d := rec.Diagnostic
		row := []string{
			strconv.Itoa(d.Line),
			strconv.Itoa(d.Col),
			r.severity(d.Severity),
			d.Kind.String(),
			d.Macro.String(),
			Truncate(rec.Message, 80),
		}
		if withFile {
			row = append([]string{rec.File}, row...)
		}
		rows = append(rows, row)
	}
	r.RenderTable(headers, rows)
	return nil
}

func (r *Renderer) severity(s man.Severity) string {
	if s == man.SeverityError {
		return color.New(color.FgRed).Sprint(s.String())
	}
	return color.New(color.FgYellow).Sprint(s.String())
}

type diagnosticRecord struct {
	File           string `json:"file,omitempty" yaml:"file,omitempty"`
	man.Diagnostic `yaml:",inline"`
	Message        string `json:"message" yaml:"message"`
}

func diagnosticRecords(file string, diags []man.Diagnostic) []diagnosticRecord {
	records := make([]diagnosticRecord, 0, len(diags))
	for _, d := range diags {
		records = append(records, diagnosticRecord{File: file, Diagnostic: d, Message: d.Message()})
	}
	return records
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	_, _ = green.Fprintln(r.writer, "✓ "+msg)
}

// Error prints an error message.
func (r *Renderer) Error(msg string) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintln(r.writer, "✗ "+msg)
}

// Truncate truncates a string to the specified length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
