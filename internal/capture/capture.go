// Package capture records log output into a bounded in-memory buffer so the
// debug overlay can show it.
//
// Interception is explicit: the composition root wraps its slog handler with
// Collector.Wrap and installs the result. Every record is stored and then
// handed to the wrapped handler exactly as it would have been without the
// collector in between.
package capture

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/kx0101/devoverlay/internal/buffer"
	"github.com/kx0101/devoverlay/internal/models"
)

// DefaultCapacity is the number of log entries kept when none is configured.
const DefaultCapacity = 100

type Collector struct {
	logs *buffer.Ring[models.LogEntry]
	now  func() time.Time
}

func New(capacity int) *Collector {
	return &Collector{
		logs: buffer.New[models.LogEntry](capacity, DefaultCapacity),
		now:  time.Now,
	}
}

// Record stores a log entry at the front of the buffer. It never panics and
// never fails. Maps and slices in data are copied, so later changes by the
// caller do not reach the stored entry. Data that cannot be encoded as JSON
// is replaced by the encoding error text.
func (c *Collector) Record(level models.Level, message string, data any) {
	defer func() { _ = recover() }()

	if !level.Valid() {
		level = models.LevelInfo
	}

	c.logs.Push(models.LogEntry{
		Timestamp: models.FormatTimestamp(c.now()),
		Level:     level,
		Message:   message,
		Data:      encodable(data),
	})
}

// All returns every stored entry, newest first.
func (c *Collector) All() []models.LogEntry {
	return c.logs.Snapshot()
}

func (c *Collector) ByLevel(level models.Level) []models.LogEntry {
	return c.logs.Filter(func(e models.LogEntry) bool {
		return e.Level == level
	})
}

func (c *Collector) Clear() {
	c.logs.Clear()
}

func (c *Collector) Len() int {
	return c.logs.Len()
}

func (c *Collector) Capacity() int {
	return c.logs.Cap()
}

// Wrap returns a handler that records into c and then delegates to next.
func (c *Collector) Wrap(next slog.Handler) slog.Handler {
	return &Handler{collector: c, next: next}
}

// Logger is shorthand for slog.New(c.Wrap(next)).
func (c *Collector) Logger(next slog.Handler) *slog.Logger {
	return slog.New(c.Wrap(next))
}

func encodable(data any) (out any) {
	if data == nil {
		return nil
	}

	// Never hand data to fmt here: it has no cycle detection.
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("unencodable %T", data)
		}
	}()

	if _, err := json.Marshal(data); err != nil {
		return err.Error()
	}
	return deepCopy(reflect.ValueOf(data)).Interface()
}

// deepCopy duplicates maps and slices reachable through maps, slices and
// interfaces. Other values are shared. Only called on data that encoded,
// which rules out cycles.
func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		return v
	}
}

// LevelFromSlog maps a slog level onto the four entry levels. Levels between
// the named ones map to the nearest lower name.
func LevelFromSlog(l slog.Level) models.Level {
	switch {
	case l < slog.LevelInfo:
		return models.LevelDebug
	case l < slog.LevelWarn:
		return models.LevelInfo
	case l < slog.LevelError:
		return models.LevelWarn
	default:
		return models.LevelError
	}
}
