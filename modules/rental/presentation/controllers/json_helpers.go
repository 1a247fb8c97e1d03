package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/configuration"
	"github.com/renterra/backoffice/pkg/httpapi"
	"github.com/renterra/backoffice/pkg/serrors"
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

func pathID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_ID", "invalid resource id")
		return uuid.Nil, false
	}
	return id, true
}

// submitMutation routes a resource mutation through the approval workflow
// and renders the split outcome: 200 when the change ran immediately, 202
// when it parked as a pending change request.
func submitMutation(
	w http.ResponseWriter,
	r *http.Request,
	approvals *approvalservices.ApprovalService,
	params approvalservices.SubmitParams,
) {
	actor, err := composables.UseActor(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "ACTOR_REQUIRED", "actor headers missing")
		return
	}
	params.Requester = changerequest.Requester{ID: actor.ID, Name: actor.Name, Role: actor.Role}

	res, err := approvals.Submit(r.Context(), params)
	if err != nil {
		writeMutationError(w, r, err)
		return
	}

	if res.Executed {
		writeJSON(w, http.StatusOK, map[string]any{
			"executed": true,
			"result":   res.Result,
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"executed":   false,
		"request_id": res.Request.ID,
		"status":     string(res.Request.Status),
	})
}

func writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *attachment.ConflictError
	var base *serrors.BaseError
	switch {
	case errors.Is(err, approvalservices.ErrMissingResourceID),
		errors.Is(err, approvalservices.ErrEmptySnapshot),
		errors.Is(err, approvalservices.ErrInvalidAction):
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_VALIDATION_FAILED", err.Error())
	case errors.As(err, &conflict):
		writeAPIError(w, r, http.StatusConflict, "RENTAL_ATTACHMENT_CONFLICT", err.Error())
	case errors.Is(err, changerequest.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "RENTAL_NOT_FOUND", "resource not found")
	case errors.As(err, &base) && base.Code == "AUTHZ_FORBIDDEN":
		writeAPIError(w, r, http.StatusForbidden, base.Code, base.Message)
	case errors.As(err, &base):
		writeAPIError(w, r, http.StatusUnprocessableEntity, base.Code, base.Message)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("mutation failed")
		writeAPIError(w, r, http.StatusUnprocessableEntity, "RENTAL_EXECUTION_FAILED", err.Error())
	}
}
