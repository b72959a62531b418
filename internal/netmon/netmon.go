// Package netmon records the outcome of outgoing HTTP requests.
//
// A Monitor decorates an http.RoundTripper. Each request is timed and lands
// in one of two bounded buffers: successful (2xx) or failed (any other status,
// or a transport error). The response and error are passed back to the caller
// untouched.
package netmon

import (
	"net/http"
	"slices"
	"time"

	"github.com/kx0101/devoverlay/internal/buffer"
	"github.com/kx0101/devoverlay/internal/models"
)

// DefaultCapacity is the size of each request buffer when none is configured.
const DefaultCapacity = 50

type Monitor struct {
	successful *buffer.Ring[models.RequestEntry]
	failed     *buffer.Ring[models.RequestEntry]
	now        func() time.Time
}

func New(capacity int) *Monitor {
	return &Monitor{
		successful: buffer.New[models.RequestEntry](capacity, DefaultCapacity),
		failed:     buffer.New[models.RequestEntry](capacity, DefaultCapacity),
		now:        time.Now,
	}
}

// Transport wraps next. A nil next wraps http.DefaultTransport.
func (m *Monitor) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &transport{monitor: m, next: next}
}

// Client returns a shallow copy of base whose transport records into m.
func (m *Monitor) Client(base *http.Client) *http.Client {
	var c http.Client
	if base != nil {
		c = *base
	}
	c.Transport = m.Transport(c.Transport)
	return &c
}

func (m *Monitor) Successful() []models.RequestEntry {
	return m.successful.Snapshot()
}

func (m *Monitor) Failed() []models.RequestEntry {
	return m.failed.Snapshot()
}

func (m *Monitor) ClearAll() {
	m.successful.Clear()
	m.failed.Clear()
}

func (m *Monitor) Capacity() int {
	return m.successful.Cap()
}

func (m *Monitor) record(req *http.Request, start time.Time, resp *http.Response, err error) {
	defer func() { _ = recover() }()

	end := m.now()
	entry := models.RequestEntry{
		URL:       requestURL(req),
		Method:    requestMethod(req),
		Duration:  end.Sub(start).Milliseconds(),
		Timestamp: models.FormatTimestamp(end),
		Headers:   NormalizeHeaders(req.Header),
	}

	if err != nil {
		entry.Error = err.Error()
		m.failed.Push(entry)
		return
	}

	status := resp.StatusCode
	entry.Status = &status

	if Succeeded(status) {
		m.successful.Push(entry)
		return
	}
	m.failed.Push(entry)
}

// Succeeded reports whether status is in the 2xx range.
func Succeeded(status int) bool {
	return status >= 200 && status <= 299
}

type transport struct {
	monitor *Monitor
	next    http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := t.monitor.now()

	resp, err := t.next.RoundTrip(req)
	if err == nil && resp == nil {
		return resp, err
	}

	t.monitor.record(req, start, resp, err)
	return resp, err
}

func requestURL(req *http.Request) string {
	if req.URL == nil {
		return ""
	}
	return req.URL.String()
}

func requestMethod(req *http.Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}

// NormalizeHeaders flattens h into name/value pairs sorted by canonical name.
// Values of a multi-valued header keep their order. An empty header yields nil.
func NormalizeHeaders(h http.Header) []models.Header {
	if len(h) == 0 {
		return nil
	}

	names := make([]string, 0, len(h))
	byName := make(map[string][]string, len(h))
	for k, v := range h {
		name := http.CanonicalHeaderKey(k)
		if _, seen := byName[name]; !seen {
			names = append(names, name)
		}
		byName[name] = append(byName[name], v...)
	}
	slices.Sort(names)

	out := make([]models.Header, 0, len(h))
	for _, name := range names {
		for _, v := range byName[name] {
			out = append(out, models.Header{Name: name, Value: v})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
