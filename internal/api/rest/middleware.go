package rest

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/felixggj/happy-robot-fde/internal/errors"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/cache"
)

// Middleware wraps an http.Handler with additional behavior
type Middleware func(http.Handler) http.Handler

// MiddlewareChain composes middlewares in declaration order.
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewMiddlewareChain creates a middleware chain
func NewMiddlewareChain(middlewares ...Middleware) *MiddlewareChain {
	return &MiddlewareChain{middlewares: middlewares}
}

// Then wraps the final handler with the chain.
func (c *MiddlewareChain) Then(h http.Handler) http.Handler {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// RequestIDMiddleware assigns each request an ID, honoring one supplied by
// the caller.
func RequestIDMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)
			ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// basicResponseWriter captures the status code for logging
type basicResponseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *basicResponseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// RequestLoggingMiddleware logs all HTTP requests
func RequestLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &basicResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			requestID, _ := r.Context().Value(contextKeyRequestID).(string)
			logger.InfoContext(r.Context(), "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// RecoveryMiddleware recovers from panics and returns 500 errors
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"stack", string(debug.Stack()),
						"path", r.URL.Path,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":{"code":"INTERNAL","message":"An internal error occurred"}}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyMiddleware checks the x-api-key header against the configured key.
// An empty configured key disables the check (development mode). The health
// endpoint stays open for probes either way.
func APIKeyMiddleware(apiKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" || isPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			supplied := r.Header.Get("x-api-key")
			if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(apiKey)) != 1 {
				writeAppError(w, http.StatusUnauthorized, apperrors.NewUnauthorizedError("Invalid API key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicEndpoint(path string) bool {
	return path == "/api/health" || strings.HasPrefix(path, "/metrics")
}

// RateLimitConfig controls the API-wide request limiter.
type RateLimitConfig struct {
	RequestsPerSecond int
}

// RateLimitMiddleware limits requests per client IP using the shared
// sliding-window limiter. Limiter failures let traffic through; losing
// Redis should not take the API down with it.
func RateLimitMiddleware(limiter cache.RateLimiter, cfg RateLimitConfig, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), "ip:"+clientIP(r), cfg.RequestsPerSecond, time.Second)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx > 0 {
			return ip[:idx]
		}
		return ip
	}
	return r.RemoteAddr
}
