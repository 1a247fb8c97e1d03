package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/middleware"
	"github.com/renterra/backoffice/pkg/serrors"
)

type ChangeRequestAPIController struct {
	app       application.Application
	approvals *services.ApprovalService
	basePath  string
}

func NewChangeRequestAPIController(app application.Application) application.Controller {
	return &ChangeRequestAPIController{
		app:       app,
		approvals: app.Service(services.ApprovalService{}).(*services.ApprovalService),
		basePath:  "/approval",
	}
}

func (c *ChangeRequestAPIController) Key() string {
	return c.basePath
}

func (c *ChangeRequestAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideActor())
	router.HandleFunc("/change-requests", c.List).Methods(http.MethodGet)
	router.HandleFunc("/change-requests/{id}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.ProvideActor())
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("/change-requests", c.Submit).Methods(http.MethodPost)
	writeRouter.HandleFunc("/change-requests/{id}/approve", c.Approve).Methods(http.MethodPost)
	writeRouter.HandleFunc("/change-requests/{id}/reject", c.Reject).Methods(http.MethodPost)
}

func (c *ChangeRequestAPIController) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseActor(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "ACTOR_REQUIRED", "actor headers missing")
		return
	}

	var dto SubmitChangeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "APPROVAL_INVALID_JSON", "invalid json")
		return
	}
	if fields, ok := dto.Ok(); !ok {
		message := "validation failed"
		for _, v := range fields {
			message = v
			break
		}
		writeAPIError(w, r, http.StatusBadRequest, "APPROVAL_VALIDATION_FAILED", message)
		return
	}

	files, err := dto.RawFiles()
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "APPROVAL_INVALID_FILE", err.Error())
		return
	}

	res, err := c.approvals.Submit(r.Context(), services.SubmitParams{
		Requester: changerequest.Requester{
			ID:   actor.ID,
			Name: actor.Name,
			Role: actor.Role,
		},
		Action:             changerequest.ActionType(dto.Action),
		Resource:           changerequest.ResourceType(dto.ResourceType),
		ResourceID:         dto.ResourceID,
		OriginalSnapshot:   dto.OriginalSnapshot,
		ProposedSnapshot:   dto.ProposedSnapshot,
		Reason:             dto.Reason,
		KeptAttachments:    dto.KeptRefs(),
		AddedFiles:         files,
		DeletedAttachments: dto.DeletedRefs(),
	})
	if err != nil {
		c.writeSubmitError(w, r, err)
		return
	}

	if res.Executed {
		writeJSON(w, http.StatusOK, map[string]any{
			"executed": true,
			"result":   res.Result,
		})
		return
	}
	writeSubmitAccepted(w, res.Request)
}

func writeSubmitAccepted(w http.ResponseWriter, req *changerequest.ChangeRequest) {
	writeJSON(w, http.StatusAccepted, map[string]any{
		"executed":   false,
		"request_id": req.ID,
		"status":     string(req.Status),
	})
}

func (c *ChangeRequestAPIController) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *attachment.ConflictError
	var base *serrors.BaseError
	switch {
	case errors.Is(err, services.ErrMissingRequester),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrMissingResourceType),
		errors.Is(err, services.ErrMissingResourceID),
		errors.Is(err, services.ErrEmptySnapshot):
		writeAPIError(w, r, http.StatusBadRequest, "APPROVAL_VALIDATION_FAILED", err.Error())
	case errors.As(err, &conflict):
		writeAPIError(w, r, http.StatusConflict, "APPROVAL_ATTACHMENT_CONFLICT", err.Error())
	case errors.As(err, &base) && base.Code == "AUTHZ_FORBIDDEN":
		writeAPIError(w, r, http.StatusForbidden, base.Code, base.Message)
	case errors.Is(err, changerequest.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "APPROVAL_RESOURCE_NOT_FOUND", "resource not found")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("change request submission failed")
		writeAPIError(w, r, http.StatusUnprocessableEntity, "APPROVAL_EXECUTION_FAILED", err.Error())
	}
}

func (c *ChangeRequestAPIController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reviewer, ok := useReviewer(w, r)
	if !ok {
		return
	}
	dto := decodeReview(r)

	req, result, err := c.approvals.Approve(r.Context(), id, services.ReviewParams{
		Reviewer: reviewer,
		Comment:  dto.Comment,
	})
	if err != nil {
		var execErr *services.ExecutionError
		if errors.As(err, &execErr) {
			// The approval decision is recorded; only applying the
			// change-set failed.
			composables.UseLogger(r.Context()).WithError(err).Error("approved change request failed to execute")
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"request": toViewModel(req),
				"error": map[string]any{
					"code":    "APPROVAL_EXECUTION_FAILED",
					"message": execErr.Error(),
				},
			})
			return
		}
		c.writeReviewError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"request": toViewModel(req),
		"result":  result,
	})
}

func (c *ChangeRequestAPIController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reviewer, ok := useReviewer(w, r)
	if !ok {
		return
	}
	dto := decodeReview(r)

	req, err := c.approvals.Reject(r.Context(), id, services.ReviewParams{
		Reviewer: reviewer,
		Comment:  dto.Comment,
	})
	if err != nil {
		c.writeReviewError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"request": toViewModel(req),
	})
}

func (c *ChangeRequestAPIController) writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, changerequest.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "APPROVAL_NOT_FOUND", "change request not found")
	case errors.Is(err, changerequest.ErrAlreadyReviewed):
		writeAPIError(w, r, http.StatusConflict, "APPROVAL_ALREADY_REVIEWED", "change request already reviewed")
	case errors.Is(err, changerequest.ErrSelfReview):
		writeAPIError(w, r, http.StatusUnprocessableEntity, "APPROVAL_SELF_REVIEW", "requester cannot review their own change request")
	case errors.Is(err, services.ErrMissingReviewer):
		writeAPIError(w, r, http.StatusUnauthorized, "ACTOR_REQUIRED", "actor headers missing")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("change request review failed")
		writeAPIError(w, r, http.StatusInternalServerError, "APPROVAL_INTERNAL", "internal error")
	}
}

func (c *ChangeRequestAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, err := c.approvals.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, changerequest.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "APPROVAL_NOT_FOUND", "change request not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("change request lookup failed")
		writeAPIError(w, r, http.StatusInternalServerError, "APPROVAL_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toViewModel(req))
}

func (c *ChangeRequestAPIController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)

	params := changerequest.FindParams{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	for _, s := range splitQuery(r.URL.Query().Get("status")) {
		params.Statuses = append(params.Statuses, changerequest.Status(s))
	}
	for _, rt := range splitQuery(r.URL.Query().Get("resource_type")) {
		params.ResourceTypes = append(params.ResourceTypes, changerequest.ResourceType(rt))
	}
	if r.URL.Query().Get("mine") == "true" {
		if actor, err := composables.UseActor(r.Context()); err == nil {
			requesterID := actor.ID
			params.RequesterID = &requesterID
		}
	}

	items, total, err := c.approvals.List(r.Context(), params)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("change request listing failed")
		writeAPIError(w, r, http.StatusInternalServerError, "APPROVAL_INTERNAL", "internal error")
		return
	}

	out := make([]ChangeRequestViewModel, 0, len(items))
	for i := range items {
		out = append(out, toViewModel(&items[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
		"page":  pagination.Page,
		"limit": pagination.Limit,
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "APPROVAL_INVALID_ID", "invalid change request id")
		return uuid.Nil, false
	}
	return id, true
}

func useReviewer(w http.ResponseWriter, r *http.Request) (changerequest.Requester, bool) {
	actor, err := composables.UseActor(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "ACTOR_REQUIRED", "actor headers missing")
		return changerequest.Requester{}, false
	}
	return changerequest.Requester{ID: actor.ID, Name: actor.Name, Role: actor.Role}, true
}

func decodeReview(r *http.Request) ReviewDTO {
	var dto ReviewDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}
	dto.Comment = strings.TrimSpace(dto.Comment)
	return dto
}
