package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/pkg/configuration"
	"github.com/renterra/backoffice/pkg/httpapi"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	_ = httpapi.WriteJSON(w, status, payload)
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	_ = httpapi.WriteError(w, status, code, message, map[string]string{
		"request_id": ensureRequestID(w, r),
	})
}

// splitQuery parses a comma-separated query value into trimmed parts.
func splitQuery(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
