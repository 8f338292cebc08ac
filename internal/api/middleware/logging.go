package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// logFields collects identity fields set by inner middleware so the access log can
// report them after the handler returns.
type logFields struct {
	mu       sync.Mutex
	userID   string
	tenantID string
}

const logFieldsKey contextKey = "log_fields"

func annotate(ctx context.Context, fn func(*logFields)) {
	f, _ := ctx.Value(logFieldsKey).(*logFields)
	if f == nil {
		return
	}
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

// Logging returns middleware that logs each request with structured JSON output.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			fields := &logFields{}
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), logFieldsKey, fields)))

			fields.mu.Lock()
			userID, tenantID := fields.userID, fields.tenantID
			fields.mu.Unlock()

			ce := logger.Check(accessLevel(r.URL.Path, rw.statusCode), "http request")
			if ce == nil {
				return
			}
			ce.Write(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rw.statusCode),
				zap.Int64("bytes", rw.written),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("user_id", userID),
				zap.String("tenant_id", tenantID),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			)
		})
	}
}

// Health checks log at debug; failures log at warn (4xx) or error (5xx).
func accessLevel(path string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	case path == "/health" || path == "/metrics":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
