package environment

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey struct{}

// WithContext adds the mode to ctx.
func WithContext(ctx context.Context, m Mode) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// FromContext retrieves the mode from ctx, or "" when absent.
func FromContext(ctx context.Context) Mode {
	if ctx == nil {
		return ""
	}
	m, _ := ctx.Value(contextKey{}).(Mode)
	return m
}

// Middleware attaches m to every request context.
func Middleware(m Mode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), m)))
		})
	}
}

// LoggerExtractor returns a logger context extractor emitting the mode under "env".
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if m := FromContext(ctx); m != "" {
			return slog.String("env", string(m)), true
		}
		return slog.Attr{}, false
	}
}
