package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned to the request by RequestIDMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware keeps a valid incoming X-Request-ID or assigns a new one, and echoes it
// in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		writer.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(writer, req.WithContext(context.WithValue(req.Context(), requestIDKey{}, id)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func newStatusWriter(writer http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: writer, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request. Server errors are logged at error level, everything
// else at debug level.
func LoggingMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	log = log.With(slog.String("op", "server.LoggingMiddleware"), slog.String("division", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			recorder := newStatusWriter(writer)

			next.ServeHTTP(recorder, req)

			attrs := []any{
				slog.String("request_id", RequestID(req.Context())),
				slog.Int("code", recorder.status),
				slog.String("method", req.Method),
				slog.String("path", removeNewlines(req.URL.Path)),
				slog.Duration("duration", time.Since(start)),
				slog.String("user_agent", removeNewlines(req.UserAgent())),
			}
			if recorder.status >= http.StatusInternalServerError {
				log.ErrorContext(req.Context(), "Request failed", attrs...)
				return
			}
			log.DebugContext(req.Context(), "Request served", attrs...)
		})
	}
}

// MetricsMiddleware counts requests and observes their latency, labelled by route template.
func MetricsMiddleware(appMetrics *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			recorder := newStatusWriter(writer)

			next.ServeHTTP(recorder, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			appMetrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(recorder.status)).Inc()
			appMetrics.HTTPDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func removeNewlines(data string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(data)
}
