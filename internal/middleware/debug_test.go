package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestDebugPreference(t *testing.T) {
	tests := []struct {
		name       string
		allowed    bool
		target     string
		cookie     string
		wantMode   bool
		wantCookie string
	}{
		{name: "off by default", allowed: true, target: "/", wantMode: false},
		{name: "query enables and persists", allowed: true, target: "/?debug=true", wantMode: true, wantCookie: "true"},
		{name: "cookie enables", allowed: true, target: "/about", cookie: "true", wantMode: true},
		{name: "query disables stored preference", allowed: true, target: "/?debug=false", cookie: "true", wantMode: false, wantCookie: "false"},
		{name: "unknown query value keeps cookie", allowed: true, target: "/?debug=yes", cookie: "true", wantMode: true},
		{name: "gate off ignores query", allowed: false, target: "/?debug=true", wantMode: false},
		{name: "gate off ignores cookie", allowed: false, target: "/", cookie: "true", wantMode: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode bool
			handler := DebugPreference(tt.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mode = DebugMode(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DebugModeCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantMode, mode)

			c := findCookie(rec, DebugModeCookie)
			if tt.wantCookie == "" {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.wantCookie, c.Value)
			assert.Equal(t, "/", c.Path)
			assert.Positive(t, c.MaxAge)
		})
	}
}

func TestDebugPreference_StoresToken(t *testing.T) {
	handler := DebugPreference(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?debug=true&debug_token=secret-token-value", nil))

	c := findCookie(rec, DebugTokenCookie)
	require.NotNil(t, c)
	assert.Equal(t, "secret-token-value", c.Value)
	assert.True(t, c.HttpOnly)
}

func TestDebugToken(t *testing.T) {
	const token = "0123456789abcdef-token"

	tests := []struct {
		name       string
		configured string
		header     string
		cookie     string
		wantStatus int
	}{
		{name: "no token configured", configured: "", wantStatus: http.StatusOK},
		{name: "missing token", configured: token, wantStatus: http.StatusUnauthorized},
		{name: "wrong header", configured: token, header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "valid header", configured: token, header: token, wantStatus: http.StatusOK},
		{name: "valid cookie", configured: token, cookie: token, wantStatus: http.StatusOK},
		{name: "wrong header wins over cookie", configured: token, header: "nope", cookie: token, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := DebugToken(tt.configured)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/debug/logs", nil)
			if tt.header != "" {
				req.Header.Set(DebugTokenHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DebugTokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
}
