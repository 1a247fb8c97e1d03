package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/httpapi"
)

const (
	actorIDHeader   = "X-Actor-ID"
	actorNameHeader = "X-Actor-Name"
	actorRoleHeader = "X-Actor-Role"
)

// ProvideActor resolves the acting user from trusted gateway headers and
// rejects requests without one. Authentication itself happens upstream.
func ProvideActor() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := strings.TrimSpace(r.Header.Get(actorIDHeader))
			id, err := uuid.Parse(rawID)
			if err != nil || id == uuid.Nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "ACTOR_REQUIRED", "missing or invalid "+actorIDHeader+" header", nil)
				return
			}
			actor := composables.Actor{
				ID:   id,
				Name: strings.TrimSpace(r.Header.Get(actorNameHeader)),
				Role: strings.ToLower(strings.TrimSpace(r.Header.Get(actorRoleHeader))),
			}
			r = r.WithContext(composables.WithActor(r.Context(), actor))
			next.ServeHTTP(w, r)
		})
	}
}
