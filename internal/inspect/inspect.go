// Package inspect is the read side the debug overlay uses: snapshots of
// captured logs and requests, a summary, and a way to clear everything.
package inspect

import (
	"github.com/kx0101/devoverlay/internal/capture"
	"github.com/kx0101/devoverlay/internal/models"
	"github.com/kx0101/devoverlay/internal/netmon"
	"github.com/kx0101/devoverlay/internal/stats"
)

// Inspector reads from a log collector and a network monitor. Either may be
// nil, in which case its accessors return empty results.
type Inspector struct {
	logs     *capture.Collector
	requests *netmon.Monitor
}

func New(logs *capture.Collector, requests *netmon.Monitor) *Inspector {
	return &Inspector{logs: logs, requests: requests}
}

func (i *Inspector) Logs() []models.LogEntry {
	if i.logs == nil {
		return []models.LogEntry{}
	}
	return i.logs.All()
}

func (i *Inspector) LogsByLevel(level models.Level) []models.LogEntry {
	if i.logs == nil {
		return []models.LogEntry{}
	}
	return i.logs.ByLevel(level)
}

func (i *Inspector) ErrorLogs() []models.LogEntry {
	return i.LogsByLevel(models.LevelError)
}

func (i *Inspector) SuccessfulRequests() []models.RequestEntry {
	if i.requests == nil {
		return []models.RequestEntry{}
	}
	return i.requests.Successful()
}

func (i *Inspector) FailedRequests() []models.RequestEntry {
	if i.requests == nil {
		return []models.RequestEntry{}
	}
	return i.requests.Failed()
}

func (i *Inspector) ClearAll() {
	if i.logs != nil {
		i.logs.Clear()
	}
	if i.requests != nil {
		i.requests.ClearAll()
	}
}

func (i *Inspector) Summary() models.Summary {
	logs := i.Logs()
	successful := i.SuccessfulRequests()
	failed := i.FailedRequests()

	var errorLogs int
	for _, l := range logs {
		if l.Level == models.LevelError {
			errorLogs++
		}
	}

	return models.Summary{
		Logs:       len(logs),
		ErrorLogs:  errorLogs,
		Successful: len(successful),
		Failed:     len(failed),
		Latency:    stats.CalculateLatencyStats(stats.RequestDurations(successful, failed)),
	}
}
