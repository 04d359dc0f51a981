package result

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Format selects a rendering.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatCSV), string(FormatMarkdown), string(FormatJSON)}
}

// ParseFormat resolves a format name. "md" is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "text", "table":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats(), ", "))
}

// columnMargin separates aligned text columns.
const columnMargin = "  "

// plainStyle pads every column to its widest cell plus a fixed margin, with
// no borders or separators.
var plainStyle = func() table.Style {
	s := table.StyleDefault
	s.Name = "plain"
	s.Box.PaddingLeft = ""
	s.Box.PaddingRight = columnMargin
	s.Format.Header = text.FormatDefault
	s.Options = table.Options{}
	return s
}()

func (t *Table) writer() table.Writer {
	w := table.NewWriter()
	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	w.AppendHeader(header)
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		w.AppendRow(row)
	}
	return w
}

// Text renders the table as aligned text, header first, one row per line.
// The last column carries no trailing padding.
func (t *Table) Text() string {
	w := t.writer()
	w.SetStyle(plainStyle)
	lines := strings.Split(w.Render(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// renderCSV renders RFC 4180 records, header first.
func (t *Table) renderCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return "", err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// String implements fmt.Stringer with the text rendering.
func (t *Table) String() string {
	return t.Text()
}

type jsonTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Render writes the table to out in the given format.
func (t *Table) Render(out io.Writer, format Format) error {
	var s string
	switch format {
	case FormatJSON:
		rows := t.Rows
		if rows == nil {
			rows = [][]string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonTable{Columns: t.Header, Rows: rows})
	case FormatCSV:
		var err error
		if s, err = t.renderCSV(); err != nil {
			return fmt.Errorf("failed to render csv: %w", err)
		}
	case FormatMarkdown:
		s = t.writer().RenderMarkdown()
	case FormatText, "":
		s = t.Text()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	_, err := fmt.Fprintln(out, s)
	return err
}
