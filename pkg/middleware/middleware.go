package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casuse/website-backend/pkg/logger"
	"github.com/casuse/website-backend/pkg/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestID adds a unique request ID to each request
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging logs HTTP requests with structured logging
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&StructuredLogger{log: log})
}

type StructuredLogger struct {
	log *zap.Logger
}

func (l *StructuredLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &StructuredLogEntry{
		request: r,
		log:     l.log,
	}
}

type StructuredLogEntry struct {
	request *http.Request
	log     *zap.Logger
}

func (l *StructuredLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	logger.WithContext(l.request.Context(), l.log).Info("HTTP request completed",
		zap.String("method", l.request.Method),
		zap.String("path", l.request.URL.Path),
		zap.Int("status", status),
		zap.Int("bytes", bytes),
		zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		zap.String("user_agent", l.request.UserAgent()),
		zap.String("remote_addr", l.request.RemoteAddr),
	)
}

func (l *StructuredLogEntry) Panic(v interface{}, stack []byte) {
	logger.WithContext(l.request.Context(), l.log).Error("HTTP request panic",
		zap.Any("panic", v),
		zap.ByteString("stack", stack),
		zap.String("method", l.request.Method),
		zap.String("path", l.request.URL.Path),
	)
}

// ServiceName adds service name to context for logging
func ServiceName(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), logger.ServiceKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Metrics records request count and latency per chi route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
