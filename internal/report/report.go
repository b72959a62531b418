// Package report renders a standalone HTML snapshot of captured debug data.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/kx0101/devoverlay/internal/models"
)

type Snapshot struct {
	Source     string
	Logs       []models.LogEntry
	Successful []models.RequestEntry
	Failed     []models.RequestEntry
	Summary    models.Summary
}

type reportData struct {
	Snapshot
	GeneratedAt string
}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"statusColor": statusColor,
	"formatPath":  formatPath,
	"levelColor":  levelColor,
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}).Parse(htmlTemplate))

// GenerateHTML writes the snapshot report to outputPath.
func GenerateHTML(snap Snapshot, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return Write(file, snap, time.Now())
}

func Write(w io.Writer, snap Snapshot, generatedAt time.Time) error {
	data := reportData{
		Snapshot:    snap,
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05"),
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func statusColor(status *int) string {
	if status == nil {
		return "error"
	}

	switch {
	case *status < 400:
		return "success"
	case *status < 500:
		return "warning"
	default:
		return "error"
	}
}

func levelColor(level models.Level) string {
	switch level {
	case models.LevelError:
		return "error"
	case models.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}

func formatPath(path string) string {
	if len(path) > 60 {
		return path[:57] + "..."
	}

	return path
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Debug Snapshot</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #f5f7fa;
            color: #2d3748;
            padding: 2rem;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        .header, .section, .stat-card {
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .header { padding: 2rem; margin-bottom: 2rem; }
        h1 { color: #1a202c; font-size: 2rem; margin-bottom: 0.5rem; }
        .meta { color: #718096; font-size: 0.9rem; }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 1rem;
            margin-bottom: 2rem;
        }
        .stat-card { padding: 1.5rem; }
        .stat-value { font-size: 2rem; font-weight: bold; margin-bottom: 0.25rem; }
        .stat-label { color: #718096; font-size: 0.875rem; }
        .success { color: #48bb78; }
        .error { color: #f56565; }
        .warning { color: #ed8936; }
        .info { color: #4299e1; }
        .section { padding: 1.5rem; margin-bottom: 2rem; overflow-x: auto; }
        .section-title { font-size: 1.25rem; font-weight: 600; margin-bottom: 1rem; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 0.75rem; text-align: left; border-bottom: 1px solid #e2e8f0; vertical-align: top; }
        th { background: #f7fafc; font-size: 0.8rem; text-transform: uppercase; color: #4a5568; }
        td.mono { font-family: ui-monospace, Menlo, monospace; font-size: 0.85rem; }
        .empty { color: #a0aec0; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>Debug Snapshot</h1>
        <div class="meta">Generated {{.GeneratedAt}}{{if .Source}} from {{.Source}}{{end}}</div>
    </div>

    <div class="stats-grid">
        <div class="stat-card"><div class="stat-value">{{.Summary.Logs}}</div><div class="stat-label">Log entries</div></div>
        <div class="stat-card"><div class="stat-value error">{{.Summary.ErrorLogs}}</div><div class="stat-label">Errors</div></div>
        <div class="stat-card"><div class="stat-value success">{{.Summary.Successful}}</div><div class="stat-label">Successful requests</div></div>
        <div class="stat-card"><div class="stat-value error">{{.Summary.Failed}}</div><div class="stat-label">Failed requests</div></div>
        <div class="stat-card"><div class="stat-value">{{.Summary.Latency.P50}}ms</div><div class="stat-label">p50 latency</div></div>
        <div class="stat-card"><div class="stat-value">{{.Summary.Latency.P95}}ms</div><div class="stat-label">p95 latency</div></div>
    </div>

    <div class="section">
        <div class="section-title">Logs</div>
        {{if .Logs}}
        <table>
            <tr><th>Time</th><th>Level</th><th>Message</th><th>Data</th></tr>
            {{range .Logs}}
            <tr>
                <td class="mono">{{.Timestamp}}</td>
                <td class="{{levelColor .Level}}">{{.Level}}</td>
                <td>{{.Message}}</td>
                <td class="mono">{{if .Data}}{{printf "%v" .Data}}{{end}}</td>
            </tr>
            {{end}}
        </table>
        {{else}}<div class="empty">No logs to display</div>{{end}}
    </div>

    <div class="section">
        <div class="section-title">Failed Requests</div>
        {{if .Failed}}
        <table>
            <tr><th>Time</th><th>Method</th><th>URL</th><th>Status</th><th>Duration</th><th>Error</th></tr>
            {{range .Failed}}
            <tr>
                <td class="mono">{{.Timestamp}}</td>
                <td>{{.Method}}</td>
                <td class="mono" title="{{.URL}}">{{formatPath .URL}}</td>
                <td class="{{statusColor .Status}}">{{if .Status}}{{deref .Status}}{{else}}ERR{{end}}</td>
                <td>{{.Duration}}ms</td>
                <td>{{.Error}}</td>
            </tr>
            {{end}}
        </table>
        {{else}}<div class="empty">No failed requests</div>{{end}}
    </div>

    <div class="section">
        <div class="section-title">Successful Requests</div>
        {{if .Successful}}
        <table>
            <tr><th>Time</th><th>Method</th><th>URL</th><th>Status</th><th>Duration</th></tr>
            {{range .Successful}}
            <tr>
                <td class="mono">{{.Timestamp}}</td>
                <td>{{.Method}}</td>
                <td class="mono" title="{{.URL}}">{{formatPath .URL}}</td>
                <td class="{{statusColor .Status}}">{{deref .Status}}</td>
                <td>{{.Duration}}ms</td>
            </tr>
            {{end}}
        </table>
        {{else}}<div class="empty">No successful requests</div>{{end}}
    </div>
</div>
</body>
</html>
`
