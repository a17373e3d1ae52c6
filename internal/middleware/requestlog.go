package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type contextKey string

const ContextLoggerKey contextKey = "logger"

type RequestLogger struct {
	logr *zap.Logger
}

// NewRequestLogger creates a reusable access-log middleware instance
func NewRequestLogger(logr *zap.Logger) *RequestLogger {
	return &RequestLogger{logr: logr}
}

// Log attaches a request-scoped logger to the context and logs each completed request
func (m *RequestLogger) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogr := m.logr.With(zap.String("request_id", chimw.GetReqID(r.Context())))

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		ctx := context.WithValue(r.Context(), ContextLoggerKey, reqLogr)
		next.ServeHTTP(ww, r.WithContext(ctx))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if ww.Status() >= http.StatusInternalServerError {
			reqLogr.Warn("request failed", fields...)
			return
		}
		reqLogr.Info("request", fields...)
	})
}

// LoggerFrom returns the request-scoped logger, or fallback outside a request.
func LoggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ContextLoggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}
