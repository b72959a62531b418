package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	DebugModeCookie  = "debug_mode"
	DebugTokenCookie = "debug_token"
	DebugTokenHeader = "X-Debug-Token"

	debugCookieMaxAge = 365 * 24 * time.Hour
)

// DebugPreference resolves whether the overlay is on for this browser. The
// ?debug=true|false flag is persisted in a cookie; without the flag the cookie
// decides. When allowed is false the overlay is always off and no cookie is
// written. A ?debug_token= value is stored in an HttpOnly cookie so the
// overlay can reach a token-protected debug API.
func DebugPreference(allowed bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), DebugModeContextKey, false)))
				return
			}

			stored := ""
			if c, err := r.Cookie(DebugModeCookie); err == nil {
				stored = c.Value
			}

			query := r.URL.Query()
			switch query.Get("debug") {
			case "true":
				stored = "true"
				setDebugCookie(w, r, DebugModeCookie, stored, false)
			case "false":
				stored = "false"
				setDebugCookie(w, r, DebugModeCookie, stored, false)
			}

			if tok := query.Get("debug_token"); tok != "" {
				setDebugCookie(w, r, DebugTokenCookie, tok, true)
			}

			ctx := context.WithValue(r.Context(), DebugModeContextKey, stored == "true")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setDebugCookie(w http.ResponseWriter, r *http.Request, name, value string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(debugCookieMaxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// HashToken returns the hex SHA-256 of token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// DebugToken guards the debug API. An empty token disables the check.
// Callers present the token in X-Debug-Token or the debug_token cookie.
func DebugToken(token string) func(http.Handler) http.Handler {
	want := ""
	if token != "" {
		want = HashToken(token)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if want == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(DebugTokenHeader)
			if provided == "" {
				if c, err := r.Cookie(DebugTokenCookie); err == nil {
					provided = c.Value
				}
			}

			if provided == "" || subtle.ConstantTimeCompare([]byte(HashToken(provided)), []byte(want)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
