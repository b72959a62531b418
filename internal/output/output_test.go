package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/kx0101/devoverlay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func intPtr(i int) *int { return &i }

func TestPrinter_Logs(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	err := p.Logs([]models.LogEntry{
		{Timestamp: "2024-01-02T03:04:05.006Z", Level: models.LevelError, Message: "boom", Data: map[string]any{"code": 7}},
		{Timestamp: "2024-01-02T03:04:04.000Z", Level: models.LevelInfo, Message: "hello"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "==== Logs (2) ====")
	assert.Contains(t, out, "2024-01-02T03:04:05.006Z ERROR boom {\"code\":7}")
	assert.Contains(t, out, "INFO  hello")
}

func TestPrinter_LogsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Logs(nil))
	assert.Contains(t, buf.String(), "No logs to display")
}

func TestPrinter_Requests(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	err := p.Requests("Failed Requests", []models.RequestEntry{
		{URL: "http://localhost:3000/missing", Method: "GET", Status: intPtr(404), Duration: 12, Timestamp: "t1"},
		{URL: "http://nowhere.invalid/", Method: "POST", Duration: 3, Timestamp: "t2", Error: "no such host"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "==== Failed Requests (2) ====")
	assert.Contains(t, out, "GET    http://localhost:3000/missing 404 -> 12ms")
	assert.Contains(t, out, "POST   http://nowhere.invalid/ ERR -> 3ms (no such host)")
}

func TestPrinter_Summary(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	require.NoError(t, p.Summary(models.Summary{
		Logs: 5, ErrorLogs: 2, Successful: 3, Failed: 1,
		Latency: models.LatencyStats{Min: 1, Avg: 4, P50: 3, P90: 9, P95: 9, P99: 9, Max: 9},
	}))

	out := buf.String()
	assert.Contains(t, out, "Logs: 5 (2 errors)")
	assert.Contains(t, out, "Requests: 3 succeeded, 1 failed")
	assert.Contains(t, out, "min: 1  avg: 4  p50: 3")
}

func TestPrinter_SummaryWithoutRequests(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Summary(models.Summary{Logs: 1}))
	assert.NotContains(t, buf.String(), "Latency")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	entries := []models.RequestEntry{{URL: "http://x/", Method: "GET", Status: intPtr(200), Duration: 1, Timestamp: "t"}}
	require.NoError(t, p.Requests("Successful Requests", entries))
	p.Heading("ignored in JSON mode")

	var got []models.RequestEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, entries, got)
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		name   string
		status *int
		want   string
		color  *color.Color
	}{
		{name: "transport error", status: nil, want: "ERR", color: red},
		{name: "ok", status: intPtr(200), want: "200", color: green},
		{name: "redirect", status: intPtr(302), want: "302", color: green},
		{name: "client error", status: intPtr(404), want: "404", color: yellow},
		{name: "server error", status: intPtr(503), want: "503", color: red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, c := formatStatus(tt.status)
			assert.Equal(t, tt.want, got)
			assert.Same(t, tt.color, c)
		})
	}
}
