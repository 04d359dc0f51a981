package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapdb/internal/engine"
	"github.com/leapstack-labs/leapdb/internal/result"
)

// Styles for interactive output. lipgloss drops the colors when the output
// is not a terminal.
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// writeResponse prints a response. The text format is the wire text; other
// formats render the result table and keep the markers for tables-less
// outcomes.
func writeResponse(w io.Writer, resp *engine.Response, format result.Format) error {
	switch {
	case !resp.OK():
		_, err := fmt.Fprintln(w, resp.String())
		return err
	case format == result.FormatText || resp.Result == nil:
		_, err := fmt.Fprintln(w, resp.String())
		return err
	default:
		return resp.Result.Render(w, format)
	}
}

// styleMarkers colors a leading [OK] or [ERROR] marker of response text.
func styleMarkers(text string) string {
	switch {
	case len(text) >= len(engine.MarkerError) && text[:len(engine.MarkerError)] == engine.MarkerError:
		return errorStyle.Render(engine.MarkerError) + text[len(engine.MarkerError):]
	case len(text) >= len(engine.MarkerOK) && text[:len(engine.MarkerOK)] == engine.MarkerOK:
		return okStyle.Render(engine.MarkerOK) + text[len(engine.MarkerOK):]
	}
	return text
}
