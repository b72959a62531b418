package models

import (
	"time"
)

// TimestampLayout is the ISO-8601 layout used for every entry timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelDebug Level = "debug"
)

func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelWarn, LevelError, LevelDebug:
		return true
	}
	return false
}

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// Header is a single name/value pair. Multi-valued headers appear once per value.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type RequestEntry struct {
	URL       string   `json:"url"`
	Method    string   `json:"method"`
	Status    *int     `json:"status,omitempty"`
	Duration  int64    `json:"duration"`
	Timestamp string   `json:"timestamp"`
	Error     string   `json:"error,omitempty"`
	Headers   []Header `json:"headers,omitempty"`
}

type LatencyStats struct {
	P50 int64 `json:"p50"`
	P90 int64 `json:"p90"`
	P95 int64 `json:"p95"`
	P99 int64 `json:"p99"`
	Min int64 `json:"min"`
	Max int64 `json:"max"`
	Avg int64 `json:"avg"`
}

type Summary struct {
	Logs       int          `json:"logs"`
	ErrorLogs  int          `json:"error_logs"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Latency    LatencyStats `json:"latency"`
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
