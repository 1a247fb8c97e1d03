package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/configuration"
)

type statusWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

// RequestID returns the inbound request id, minting one when absent.
func RequestID(r *http.Request) string {
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}
	if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
		return id
	}
	return uuid.NewString()
}

// WithLogger injects a request-scoped logrus entry and logs each request
// with its final status and duration.
func WithLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := RequestID(r)

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			sw := &statusWriter{ResponseWriter: w}
			r = r.WithContext(composables.WithLogger(r.Context(), entry))

			next.ServeHTTP(sw, r)

			entry.WithFields(logrus.Fields{
				"status":   sw.Status(),
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}
