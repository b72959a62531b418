// Package output prints debug data for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kx0101/devoverlay/internal/models"
)

var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

type Printer struct {
	w    io.Writer
	json bool
}

// New returns a printer writing to w. With asJSON set every method writes
// indented JSON instead of coloured text.
func New(w io.Writer, asJSON bool) *Printer {
	return &Printer{w: w, json: asJSON}
}

func (p *Printer) JSON(v any) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func (p *Printer) Logs(entries []models.LogEntry) error {
	if p.json {
		return p.JSON(entries)
	}

	_, _ = bold.Fprintf(p.w, "==== Logs (%d) ====\n", len(entries))
	if len(entries) == 0 {
		_, _ = faint.Fprintln(p.w, "No logs to display")
		return nil
	}

	for _, e := range entries {
		_, _ = faint.Fprintf(p.w, "%s ", e.Timestamp)
		_, _ = levelColor(e.Level).Fprintf(p.w, "%-5s", strings.ToUpper(string(e.Level)))
		fmt.Fprintf(p.w, " %s", e.Message)

		if e.Data != nil {
			data, err := json.Marshal(e.Data)
			if err != nil {
				data = []byte(fmt.Sprintf("%+v", e.Data))
			}
			_, _ = faint.Fprintf(p.w, " %s", data)
		}
		fmt.Fprintln(p.w)
	}
	return nil
}

func (p *Printer) Requests(title string, entries []models.RequestEntry) error {
	if p.json {
		return p.JSON(entries)
	}

	_, _ = bold.Fprintf(p.w, "==== %s (%d) ====\n", title, len(entries))
	if len(entries) == 0 {
		_, _ = faint.Fprintln(p.w, "No network requests to display")
		return nil
	}

	for _, e := range entries {
		statusStr, c := formatStatus(e.Status)

		_, _ = faint.Fprintf(p.w, "%s ", e.Timestamp)
		fmt.Fprintf(p.w, "%-6s %s ", e.Method, e.URL)
		_, _ = c.Fprint(p.w, statusStr)
		fmt.Fprintf(p.w, " -> %dms", e.Duration)

		if e.Error != "" {
			fmt.Fprintf(p.w, " (%s)", e.Error)
		}
		fmt.Fprintln(p.w)
	}
	return nil
}

func (p *Printer) Summary(s models.Summary) error {
	if p.json {
		return p.JSON(s)
	}

	_, _ = bold.Fprintln(p.w, "==== Summary ====")
	fmt.Fprintf(p.w, "Logs: %d (", s.Logs)
	_, _ = red.Fprintf(p.w, "%d errors", s.ErrorLogs)
	fmt.Fprintln(p.w, ")")

	fmt.Fprint(p.w, "Requests: ")
	_, _ = green.Fprintf(p.w, "%d succeeded", s.Successful)
	fmt.Fprint(p.w, ", ")
	_, _ = red.Fprintf(p.w, "%d failed", s.Failed)
	fmt.Fprintln(p.w)

	if s.Successful+s.Failed > 0 {
		fmt.Fprintln(p.w, "\nLatency (ms):")
		p.latency(s.Latency)
	}
	return nil
}

func (p *Printer) latency(stats models.LatencyStats) {
	fmt.Fprintf(p.w, "  min: %d  avg: %d  p50: %d  p90: %d  p95: %d  p99: %d  max: %d\n",
		stats.Min, stats.Avg, stats.P50, stats.P90, stats.P95, stats.P99, stats.Max)
}

// Heading prints a cyan line, used to separate watch iterations.
func (p *Printer) Heading(text string) {
	if p.json {
		return
	}
	_, _ = cyan.Fprintln(p.w, text)
}

func formatStatus(status *int) (string, *color.Color) {
	if status == nil {
		return "ERR", red
	}

	if *status < 400 {
		return fmt.Sprintf("%d", *status), green
	} else if *status < 500 {
		return fmt.Sprintf("%d", *status), yellow
	}

	return fmt.Sprintf("%d", *status), red
}

func levelColor(level models.Level) *color.Color {
	switch level {
	case models.LevelError:
		return red
	case models.LevelWarn:
		return yellow
	case models.LevelDebug:
		return faint
	default:
		return cyan
	}
}
