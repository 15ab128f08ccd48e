package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shhac/courier/internal/dispatch"
	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/model"
)

// Terminal palette.
const (
	colorMuted   = "#7f849c"
	colorAccent  = "#e86a33"
	colorSuccess = "#a6e3a1"
	colorWarning = "#f9e2af"
	colorDanger  = "#f38ba8"
	colorInfo    = "#89b4fa"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess)).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarning)).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDanger)).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorInfo))
)

type printOptions struct {
	raw   bool
	quiet bool
}

// printExchange writes the status line, the response headers and the body.
// In quiet mode only the body is written.
func printExchange(w io.Writer, ex dispatch.Exchange, opts printOptions) {
	resp := ex.Response
	body := resp.View(!opts.raw)

	if opts.quiet {
		fmt.Fprint(w, body)
		if body != "" && !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(w)
		}
		return
	}

	fmt.Fprintln(w, statusStyle(resp).Render(resp.StatusLine())+"  "+dimStyle.Render(stats(resp)))
	if ex.Request != nil {
		fmt.Fprintln(w, dimStyle.Render(string(ex.Request.Method)+" "+ex.Request.URL))
	}

	if len(resp.Headers) > 0 {
		fmt.Fprintln(w)
		for _, h := range resp.Headers {
			fmt.Fprintln(w, headerStyle.Render(h.Name+":")+" "+h.Value)
		}
	}

	if body != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, body)
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// statusStyle colours a status line by outcome: green for 2xx, yellow for
// other statuses and red when no response was received.
func statusStyle(resp domain.Response) lipgloss.Style {
	switch {
	case resp.Kind != domain.KindCompleted:
		return dangerStyle
	case resp.OK:
		return successStyle
	default:
		return warningStyle
	}
}

func stats(resp domain.Response) string {
	parts := []string{model.FormatDuration(resp.Duration)}
	if resp.Kind == domain.KindCompleted {
		parts = append(parts, model.FormatSize(resp.Size()))
	}
	return strings.Join(parts, "  ")
}
