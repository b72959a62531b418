package middleware

import (
	"context"
)

type contextKey string

const (
	RequestIDContextKey contextKey = "request_id"
	DebugModeContextKey contextKey = "debug_mode"
)

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// DebugMode reports whether the overlay should be rendered for this request.
func DebugMode(ctx context.Context) bool {
	if on, ok := ctx.Value(DebugModeContextKey).(bool); ok {
		return on
	}
	return false
}
