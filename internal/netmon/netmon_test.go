package netmon

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kx0101/devoverlay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func statusTransport(status int) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader("ok")),
			Request:    r,
		}, nil
	})
}

func TestMonitor_SuccessfulRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	m := New(DefaultCapacity)
	client := m.Client(server.Client())

	resp, err := client.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, string(body))

	ok := m.Successful()
	require.Len(t, ok, 1)
	assert.Empty(t, m.Failed())

	e := ok[0]
	assert.Equal(t, server.URL+"/health", e.URL)
	assert.Equal(t, http.MethodGet, e.Method)
	require.NotNil(t, e.Status)
	assert.Equal(t, http.StatusOK, *e.Status)
	assert.Empty(t, e.Error)
	assert.GreaterOrEqual(t, e.Duration, int64(0))
	assert.NotEmpty(t, e.Timestamp)
}

func TestMonitor_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	deadURL := server.URL + "/gone"
	server.Close()

	m := New(DefaultCapacity)
	client := m.Client(&http.Client{Timeout: 2 * time.Second})

	resp, err := client.Get(deadURL)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)

	failed := m.Failed()
	require.Len(t, failed, 1)
	assert.Empty(t, m.Successful())

	e := failed[0]
	assert.Equal(t, deadURL, e.URL)
	assert.NotEmpty(t, e.Error)
	assert.Nil(t, e.Status)
	assert.Contains(t, err.Error(), e.Error)
}

func TestMonitor_ErrorReturnedUnchanged(t *testing.T) {
	sentinel := errors.New("dial tcp: lookup nonexistent.invalid: no such host")
	m := New(DefaultCapacity)
	rt := m.Transport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, sentinel
	}))

	req, err := http.NewRequest(http.MethodPost, "http://nonexistent.invalid/api", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	assert.Nil(t, resp)
	assert.Same(t, sentinel, err)

	failed := m.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, sentinel.Error(), failed[0].Error)
	assert.Equal(t, http.MethodPost, failed[0].Method)
}

func TestMonitor_Classification(t *testing.T) {
	tests := []struct {
		status     int
		successful bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusNoContent, true},
		{299, true},
		{http.StatusMovedPermanently, false},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
		{199, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			m := New(DefaultCapacity)
			upstream := &http.Response{StatusCode: tt.status, Body: http.NoBody}
			rt := m.Transport(roundTripFunc(func(*http.Request) (*http.Response, error) {
				return upstream, nil
			}))

			req := httptest.NewRequest(http.MethodGet, "http://example.test/x", nil)
			resp, err := rt.RoundTrip(req)
			require.NoError(t, err)
			assert.Same(t, upstream, resp)

			if tt.successful {
				assert.Len(t, m.Successful(), 1)
				assert.Empty(t, m.Failed())
				return
			}

			assert.Empty(t, m.Successful())
			failed := m.Failed()
			require.Len(t, failed, 1)
			require.NotNil(t, failed[0].Status)
			assert.Equal(t, tt.status, *failed[0].Status)
			assert.Empty(t, failed[0].Error)
		})
	}
}

func TestMonitor_MethodDefaultsToGet(t *testing.T) {
	m := New(DefaultCapacity)
	rt := m.Transport(statusTransport(http.StatusOK))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/a?b=c", nil)
	req.Method = ""

	_, err := rt.RoundTrip(req)
	require.NoError(t, err)

	e := m.Successful()[0]
	assert.Equal(t, http.MethodGet, e.Method)
	assert.Equal(t, "http://example.test/a?b=c", e.URL)
}

func TestMonitor_Duration(t *testing.T) {
	m := New(DefaultCapacity)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	m.now = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(250 * time.Millisecond)
	}

	_, err := m.Transport(statusTransport(http.StatusOK)).RoundTrip(httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	require.NoError(t, err)

	e := m.Successful()[0]
	assert.Equal(t, int64(250), e.Duration)
	assert.Equal(t, "2024-01-01T00:00:00.250Z", e.Timestamp)
}

func TestMonitor_EvictionPerBuffer(t *testing.T) {
	m := New(DefaultCapacity)
	okRT := m.Transport(statusTransport(http.StatusOK))
	badRT := m.Transport(statusTransport(http.StatusBadGateway))

	for i := 0; i < 60; i++ {
		_, err := okRT.RoundTrip(httptest.NewRequest(http.MethodGet, fmt.Sprintf("http://example.test/ok/%d", i), nil))
		require.NoError(t, err)
	}
	for i := 0; i < 75; i++ {
		_, err := badRT.RoundTrip(httptest.NewRequest(http.MethodGet, fmt.Sprintf("http://example.test/bad/%d", i), nil))
		require.NoError(t, err)
	}

	ok := m.Successful()
	require.Len(t, ok, DefaultCapacity)
	for i, e := range ok {
		assert.Equal(t, fmt.Sprintf("http://example.test/ok/%d", 59-i), e.URL)
	}

	failed := m.Failed()
	require.Len(t, failed, DefaultCapacity)
	for i, e := range failed {
		assert.Equal(t, fmt.Sprintf("http://example.test/bad/%d", 74-i), e.URL)
	}
}

func TestMonitor_ClearAllTwice(t *testing.T) {
	m := New(DefaultCapacity)
	_, _ = m.Transport(statusTransport(http.StatusOK)).RoundTrip(httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	_, _ = m.Transport(statusTransport(http.StatusTeapot)).RoundTrip(httptest.NewRequest(http.MethodGet, "http://example.test/", nil))

	m.ClearAll()
	assert.Empty(t, m.Successful())
	assert.Empty(t, m.Failed())

	m.ClearAll()
	assert.Empty(t, m.Successful())
	assert.Empty(t, m.Failed())
}

func TestMonitor_ConcurrentRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/fail") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New(DefaultCapacity)
	client := m.Client(server.Client())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := "/ok"
			if i%2 == 0 {
				path = "/fail"
			}
			resp, err := client.Get(server.URL + path)
			if err == nil {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.Successful(), 10)
	assert.Len(t, m.Failed(), 10)
}

func TestMonitor_ClientKeepsBaseSettings(t *testing.T) {
	m := New(DefaultCapacity)
	base := &http.Client{Timeout: 3 * time.Second}

	c := m.Client(base)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.NotSame(t, base, c)
	assert.Nil(t, base.Transport)

	assert.NotNil(t, m.Client(nil).Transport)
}

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   http.Header
		want []models.Header
	}{
		{name: "nil", in: nil, want: nil},
		{name: "empty", in: http.Header{}, want: nil},
		{
			name: "sorted and canonical",
			in: http.Header{
				"x-request-id": {"abc"},
				"Accept":       {"application/json"},
			},
			want: []models.Header{
				{Name: "Accept", Value: "application/json"},
				{Name: "X-Request-Id", Value: "abc"},
			},
		},
		{
			name: "multi valued keeps order",
			in:   http.Header{"Cookie": {"b=2", "a=1"}},
			want: []models.Header{
				{Name: "Cookie", Value: "b=2"},
				{Name: "Cookie", Value: "a=1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeaders(tt.in))
		})
	}
}

func TestMonitor_RecordsRequestHeaders(t *testing.T) {
	m := New(DefaultCapacity)
	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set("Accept", "text/html")

	_, err := m.Transport(statusTransport(http.StatusOK)).RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, []models.Header{{Name: "Accept", Value: "text/html"}}, m.Successful()[0].Headers)
}
